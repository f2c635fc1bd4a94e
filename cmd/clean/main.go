// Command clean is the Geometry Cleaner CLI collaborator: it reads a
// GeoJSON FeatureCollection from stdin and writes the cleaned collection
// to stdout, exiting non-zero on parse failure.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/azybler/georoute/pkg/clean"
)

func main() {
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clean: read stdin: %v\n", err)
		os.Exit(1)
	}

	fc, err := geojson.UnmarshalFeatureCollection(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clean: parse FeatureCollection: %v\n", err)
		os.Exit(1)
	}

	cleaned, err := clean.Clean(fc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clean: %v\n", err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	if err := clean.WriteStream(w, cleaned); err != nil {
		fmt.Fprintf(os.Stderr, "clean: write output: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "clean: flush output: %v\n", err)
		os.Exit(1)
	}
}
