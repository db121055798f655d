package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Labels optionally names vertices; vertex v is labelled Labels[v] when
	// present, otherwise by its number.
	Labels []string
	// Highlight marks vertices to fill, e.g. the members of one clique.
	Highlight []int
}

// ToDOT converts a graph to Graphviz DOT.
//
// Symmetric graphs are written as undirected graphs with one edge per
// unordered pair; otherwise every record becomes a directed edge.
func ToDOT(g *Graph, opts DOTOptions) string {
	undirected := g.Symmetric()
	highlight := make(map[int]bool, len(opts.Highlight))
	for _, v := range opts.Highlight {
		highlight[v] = true
	}

	var buf bytes.Buffer
	kind, arrow := "digraph", "->"
	if undirected {
		kind, arrow = "graph", "--"
	}
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for v := 0; v < g.n; v++ {
		label := strconv.Itoa(v)
		if v < len(opts.Labels) && opts.Labels[v] != "" {
			label = opts.Labels[v]
		}
		attrs := fmt.Sprintf("label=%q", label)
		if highlight[v] {
			attrs += ", fillcolor=lightblue"
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", v, attrs)
	}

	buf.WriteString("\n")
	for v := 0; v < g.n; v++ {
		for _, w := range g.lists[v] {
			if undirected && w < v {
				continue
			}
			fmt.Fprintf(&buf, "  %d %s %d;\n", v, arrow, w)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	doc, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer doc.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, doc, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> header with one
// whose width and height match the viewBox, so the output scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
