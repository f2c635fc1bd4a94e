package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/paulmach/orb"

	"github.com/azybler/georoute/pkg/geo"
)

const (
	magicBytes = "GEOROUTE"
	version    = uint32(1)
	maxNodes   = 10_000_000
	maxEdges   = 50_000_000
)

// fileHeader is the binary header written ahead of the node and edge
// tables. Zone/North reconstruct the graph's Projector without needing
// to re-derive it from a point cloud.
type fileHeader struct {
	Magic    [8]byte
	Version  uint32
	Zone     uint32
	North    uint8
	_        [3]byte // padding to keep the header 4-byte aligned
	NumNodes uint32
	NumEdges uint32
}

// WriteBinary serializes g to a file at path, via a temp file and atomic
// rename so a reader never observes a partially-written graph. Layout:
// header, then one fixed-size record per node, then one variable-length
// (geometry-bearing) record per edge.
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // no-op once the rename below succeeds
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}

	north := uint8(0)
	if g.Projector != nil && g.Projector.North() {
		north = 1
	}
	zone := 0
	if g.Projector != nil {
		zone = g.Projector.Zone()
	}

	hdr := fileHeader{
		Version:  version,
		Zone:     uint32(zone),
		North:    north,
		NumNodes: uint32(len(g.Nodes)),
		NumEdges: uint32(len(g.Edges)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, n := range g.Nodes {
		rec := struct {
			ID    int64
			X, Y  float64
			Empty uint8
		}{ID: int64(n.ID), X: n.X, Y: n.Y}
		if n.Empty {
			rec.Empty = 1
		}
		if err := binary.Write(cw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("write node %d: %w", n.ID, err)
		}
	}

	for id, e := range g.Edges {
		head := struct {
			U, V      int64
			Key       uint8
			Length    float64
			NumCoords uint32
		}{U: int64(id.U), V: int64(id.V), Key: uint8(id.Key), Length: e.Length, NumCoords: uint32(len(e.Geometry))}
		if err := binary.Write(cw, binary.LittleEndian, &head); err != nil {
			return fmt.Errorf("write edge %v header: %w", id, err)
		}
		for _, pt := range e.Geometry {
			if err := binary.Write(cw, binary.LittleEndian, &pt); err != nil {
				return fmt.Errorf("write edge %v geometry: %w", id, err)
			}
		}
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a Graph previously written by WriteBinary,
// validating its CRC32 trailer and node/edge count limits.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumNodes > maxNodes {
		return nil, fmt.Errorf("NumNodes %d exceeds limit %d", hdr.NumNodes, maxNodes)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("NumEdges %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}

	proj := geo.NewProjectorForZone(int(hdr.Zone), hdr.North == 1)
	g := New(proj)

	for i := uint32(0); i < hdr.NumNodes; i++ {
		var rec struct {
			ID    int64
			X, Y  float64
			Empty uint8
		}
		if err := binary.Read(cr, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("read node %d: %w", i, err)
		}
		n := g.AddNode(int(rec.ID), orb.Point{rec.X, rec.Y})
		n.Empty = rec.Empty == 1
	}

	for i := uint32(0); i < hdr.NumEdges; i++ {
		var head struct {
			U, V      int64
			Key       uint8
			Length    float64
			NumCoords uint32
		}
		if err := binary.Read(cr, binary.LittleEndian, &head); err != nil {
			return nil, fmt.Errorf("read edge %d header: %w", i, err)
		}
		if head.NumCoords > maxEdges {
			return nil, fmt.Errorf("edge %d geometry length %d implausible", i, head.NumCoords)
		}
		geom := make(orb.LineString, head.NumCoords)
		for j := range geom {
			if err := binary.Read(cr, binary.LittleEndian, &geom[j]); err != nil {
				return nil, fmt.Errorf("read edge %d geometry: %w", i, err)
			}
		}
		id := EdgeID{U: int(head.U), V: int(head.V), Key: Key(head.Key)}
		g.Edges[id] = &Edge{ID: id, Geometry: geom, Length: head.Length}
	}

	expectedCRC := cr.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	return g, nil
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
