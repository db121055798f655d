package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jamestrimble/maximal-clique/pkg/graph"
)

// WriteEdgeList writes g to w in the edge-list format.
// Records are written in vertex order, following each neighbour list.
func WriteEdgeList(g *graph.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n", g.Order(), g.Records())

	buf := make([]byte, 0, 32)
	for v := 0; v < g.Order(); v++ {
		for _, u := range g.Neighbors(v) {
			buf = strconv.AppendInt(buf[:0], int64(v), 10)
			buf = append(buf, ',')
			buf = strconv.AppendInt(buf, int64(u), 10)
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportFile writes g to path, compressing by extension.
func ExportFile(g *graph.Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w, err := compress(f, CompressionFor(path))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := WriteEdgeList(g, w); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
