// Package io reads and writes graphs in the plain-text edge-list format.
//
// # Format
//
// The first line holds the vertex count n, the second the number of edge
// records m, and each following line one directed record "v,w" with
// 0 <= v, w < n:
//
//	4
//	8
//	0,1
//	1,0
//	1,2
//	2,1
//	...
//
// Undirected graphs list every edge twice, once in each direction. The
// header counts may be written as integral decimals ("8.0"), which some
// generators emit.
//
// # Import
//
// Use [ReadEdgeList] to parse from any io.Reader, or [ImportFile] to read a
// path. ImportFile decompresses .gz, .zst and .lz4 files transparently:
//
//	el, err := io.ImportFile("graphs/g500.txt.zst", io.ReadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range el.Warnings() {
//	    log.Warn(w)
//	}
//
// Parsing fails fast on the first malformed line, reporting its line number
// with an INVALID_FORMAT error. Out-of-range vertex ids and self-loops are
// INVALID_INPUT errors. A record count that disagrees with the header is not
// an error; it is reported through [EdgeList.Warnings]. Blank lines are
// skipped.
//
// # Export
//
// [WriteEdgeList] and [ExportFile] produce the same format, so a graph can be
// generated, written, and re-read without loss. ExportFile compresses by
// extension in the same way ImportFile decompresses.
package io
