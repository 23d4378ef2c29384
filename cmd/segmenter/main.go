// segmenter predicts the retail segment of a customer from a fitted scaler
// and k-means model.
//
// Usage:
//
//	segmenter [--dir <project>]                 interactive form
//	segmenter predict --age 42 --income 61000   one prediction
//	segmenter inspect                           artifact status
//	segmenter convert <src> <dst> [--use]       re-encode an artifact
//	segmenter init [--scaler p] [--model p]     create .segmenter/
//	segmenter serve                             MCP over stdio
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "segmenter: %v\n", err)
		os.Exit(1)
	}
}
