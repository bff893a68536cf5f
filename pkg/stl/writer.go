package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

// Format selects the STL encoding
type Format int

const (
	Binary Format = iota
	ASCII
)

// Save writes m to filename in the given format
func Save(filename string, m *mesh.Mesh, format Format) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if format == ASCII {
		err = WriteASCII(file, m)
	} else {
		err = WriteBinary(file, m)
	}
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteASCII encodes m as an ASCII STL solid. Facet normals are recomputed
// from the winding.
func WriteASCII(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for i := range m.Faces {
		tri := m.Triangle(i)
		fmt.Fprintf(bw, "  facet normal %s\n", formatFloats(tri.Normal))
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range tri.Vertices() {
			fmt.Fprintf(bw, "      vertex %s\n", formatFloats(v))
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write ASCII STL: %w", err)
	}
	return nil
}

// WriteBinary encodes m as binary STL. The mesh name goes into the header,
// truncated to 80 bytes.
func WriteBinary(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], m.Name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Faces))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i := range m.Faces {
		tri := m.Triangle(i)
		rec := binaryTriangle{Normal: toFloat32(tri.Normal)}
		for j, v := range tri.Vertices() {
			rec.Vertices[j] = toFloat32(v)
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write binary STL: %w", err)
	}
	return nil
}

func formatFloats(v geometry.Vector3) string {
	return fmt.Sprintf("%g %g %g", v.X, v.Y, v.Z)
}

func toFloat32(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
