// Package stl reads and writes STL files as indexed meshes.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gostl-slice/pkg/geometry"
	"github.com/philipparndt/gostl-slice/pkg/mesh"
)

const (
	headerSize     = 80
	triangleRecord = 50
)

// ErrMalformed is returned for STL data that cannot be decoded
var ErrMalformed = errors.New("malformed STL")

// Parse reads an STL file and returns a welded indexed mesh.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read decodes ASCII or binary STL data from r
func Read(r io.Reader) (*mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}

	if isASCII(data) {
		return parseASCII(bytes.NewReader(data))
	}
	return parseBinary(data)
}

// isASCII checks for the "solid" keyword. Some exporters write binary files
// whose header starts with "solid" too, so a header whose triangle count
// matches the data length wins.
func isASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	if len(data) >= headerSize+4 {
		count := binary.LittleEndian.Uint32(data[headerSize : headerSize+4])
		if uint64(len(data)) == uint64(headerSize+4)+uint64(count)*triangleRecord {
			return false
		}
	}
	return true
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)
	name := ""

	var triangles []geometry.Triangle
	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
				}
				currentNormal = n
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, line)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrMalformed, line, len(vertices))
			}
			triangles = append(triangles, geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return mesh.FromTriangles(name, triangles), nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		c[i] = v
	}
	return geometry.NewVector3(c[0], c[1], c[2]), nil
}

// binaryTriangle is the on-disk layout of one binary STL facet
type binaryTriangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// parseBinary parses a binary STL file
func parseBinary(data []byte) (*mesh.Mesh, error) {
	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the binary header", ErrMalformed, len(data))
	}

	// Extract name from header (if present)
	name := strings.TrimSpace(string(bytes.TrimRight(data[:headerSize], "\x00")))

	reader := bytes.NewReader(data[headerSize:])
	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	available := uint64(len(data) - headerSize - 4)
	if uint64(triangleCount)*triangleRecord > available {
		return nil, fmt.Errorf("%w: header declares %d triangles but only %d bytes follow",
			ErrMalformed, triangleCount, available)
	}

	triangles := make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var rec binaryTriangle
		if err := binary.Read(reader, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: failed to read triangle %d: %v", ErrMalformed, i, err)
		}
		triangles = append(triangles, geometry.NewTriangle(
			toVector(rec.Normal),
			toVector(rec.Vertices[0]),
			toVector(rec.Vertices[1]),
			toVector(rec.Vertices[2]),
		))
	}

	return mesh.FromTriangles(name, triangles), nil
}

func toVector(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}
