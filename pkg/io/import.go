package io

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jamestrimble/maximal-clique/pkg/errors"
	"github.com/jamestrimble/maximal-clique/pkg/graph"
)

// ReadOptions controls how an edge list is turned into a graph.
type ReadOptions struct {
	// Symmetrize adds the reverse of every record after reading.
	Symmetrize bool
	// MaxVertices rejects headers declaring more vertices. Zero uses
	// errors.MaxVertices.
	MaxVertices int
}

// EdgeList is a parsed edge-list file.
type EdgeList struct {
	Graph *graph.Graph

	Declared   int // record count from the header
	Records    int // record lines actually read
	Duplicates int // records already present when read
	Added      int // reverse records added by Symmetrize
}

// Mismatch reports whether the header's record count disagrees with the
// number of records read.
func (e *EdgeList) Mismatch() bool {
	return e.Declared != e.Records
}

// Warnings returns non-fatal problems found while reading.
func (e *EdgeList) Warnings() []string {
	var out []string
	if e.Mismatch() {
		out = append(out, fmt.Sprintf("%d edges read; %d expected", e.Records, e.Declared))
	}
	if e.Duplicates > 0 {
		out = append(out, fmt.Sprintf("%d duplicate edge records ignored", e.Duplicates))
	}
	return out
}

// ReadEdgeList parses an edge list from r.
//
// Errors carry the 1-based line number of the offending line. ReadEdgeList
// does not close r.
func ReadEdgeList(r io.Reader, opts ReadOptions) (*EdgeList, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		el     EdgeList
		g      *graph.Graph
		header int
		line   int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		switch header {
		case 0:
			n, err := parseCount(text)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: vertex count", line)
			}
			if err := errors.ValidateVertexCount(n, opts.MaxVertices); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
			}
			g = graph.New(n)
			header++
			continue
		case 1:
			m, err := parseCount(text)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: edge count", line)
			}
			el.Declared = m
			header++
			continue
		}

		v, w, err := parseRecord(text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", line)
		}
		added, err := g.AddEdge(v, w)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		el.Records++
		if !added {
			el.Duplicates++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	switch header {
	case 0:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing vertex count")
	case 1:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing edge count")
	}

	if opts.Symmetrize {
		el.Added = g.Symmetrize()
	}
	el.Graph = g
	return &el, nil
}

// ImportFile reads an edge list from path, decompressing by extension.
func ImportFile(path string, opts ReadOptions) (*EdgeList, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, err := decompress(f, CompressionFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer r.Close()

	el, err := ReadEdgeList(r, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return el, nil
}

func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("not a count: %q", s)
	}
	return int(f), nil
}

func parseRecord(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected \"v,w\", got %q", s)
	}
	v, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("bad vertex %q", a)
	}
	w, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("bad vertex %q", b)
	}
	return v, w, nil
}
