// Command prepare turns line features into a routable graph binary: ingest
// either an OSM PBF extract's car-accessible ways or a GeoJSON
// FeatureCollection of LineStrings, cluster near-duplicate vertices, build
// the node/edge tables, keep the largest connected component, and persist
// the result for cmd/serve to load at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/azybler/georoute/pkg/geo"
	"github.com/azybler/georoute/pkg/graph"
	osmparser "github.com/azybler/georoute/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	geojsonInput := flag.String("geojson", "", "Path to a GeoJSON FeatureCollection of LineString features (alternative to --input; use \"-\" for stdin)")
	output := flag.String("output", "graph.bin", "Output binary graph file path")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 1.15,103.6,1.48,104.1)")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	threshold := flag.Float64("cluster-threshold", graph.DefaultClusterThreshold, "Vertex clustering threshold, in meters")
	flag.Parse()

	if *input == "" && *geojsonInput == "" {
		fmt.Fprintln(os.Stderr, "Usage: prepare (--input <file.osm.pbf> | --geojson <file.geojson>) [--output graph.bin] [--singapore | --bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}
	if *input != "" && *geojsonInput != "" {
		fmt.Fprintln(os.Stderr, "prepare: specify only one of --input or --geojson")
		os.Exit(1)
	}

	start := time.Now()

	var lines []orb.LineString
	var err error
	if *geojsonInput != "" {
		log.Println("Reading GeoJSON line features...")
		lines, err = readGeoJSONLines(*geojsonInput)
		if err != nil {
			log.Fatalf("Failed to read GeoJSON input: %v", err)
		}
		log.Printf("Read %d line features", len(lines))
	} else {
		var opts osmparser.ParseOptions
		if *singapore {
			opts.BBox = osmparser.BBox{MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1}
			log.Println("Using Singapore bounding box filter: lat [1.15, 1.48], lng [103.6, 104.1]")
		} else if *bbox != "" {
			var minLat, minLng, maxLat, maxLng float64
			if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
				log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
			}
			opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
			log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
		}

		log.Println("Opening OSM file...")
		f, err := os.Open(*input)
		if err != nil {
			log.Fatalf("Failed to open input file: %v", err)
		}
		defer f.Close()

		log.Println("Parsing OSM data...")
		parseResult, err := osmparser.Parse(context.Background(), f, opts)
		if err != nil {
			log.Fatalf("Failed to parse OSM data: %v", err)
		}
		log.Printf("Parsed %d car-accessible ways", len(parseResult.Lines))
		lines = parseResult.Lines
	}

	log.Println("Estimating UTM projection...")
	proj, err := geo.NewProjector(collectPoints(lines))
	if err != nil {
		log.Fatalf("Failed to estimate projection: %v", err)
	}
	log.Printf("Projection: %s", proj)

	log.Println("Clustering vertices and building graph...")
	g := graph.Build(lines, proj, *threshold)
	log.Printf("Graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges))

	log.Println("Extracting largest connected component...")
	component := graph.LargestComponent(g)
	log.Printf("Largest component: %d nodes (%.1f%%)", len(component), float64(len(component))/float64(len(g.Nodes))*100)
	g = graph.FilterToNodes(g, component)
	log.Printf("Filtered graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges))

	log.Printf("Writing binary to %s...", *output)
	if err := graph.WriteBinary(*output, g); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}

func collectPoints(lines []orb.LineString) []orb.Point {
	var pts []orb.Point
	for _, ls := range lines {
		pts = append(pts, ls...)
	}
	return pts
}

// readGeoJSONLines reads a GeoJSON FeatureCollection from path (or stdin, if
// path is "-") and returns every LineString/MultiLineString feature's
// geometry flattened to a slice of lines, the generic line-feature input the
// graph preparation pipeline clusters and builds into a graph.
func readGeoJSONLines(path string) ([]orb.LineString, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	var lines []orb.LineString
	for _, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.LineString:
			lines = append(lines, geom)
		case orb.MultiLineString:
			lines = append(lines, geom...)
		default:
			log.Printf("readGeoJSONLines: skipping non-line feature geometry %T", geom)
		}
	}
	return lines, nil
}
