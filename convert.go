package meshconv

import (
	"fmt"
	"os"
)

// Options tunes a conversion. The zero value auto-detects the STL encoding
// and trusts every run of three vertex records to be one triangle.
type Options struct {
	Read ReadOptions
}

// Result summarises a finished conversion.
type Result struct {
	Source      string
	Destination string
	Vertices    int
	Faces       int
	Stats       ReadStats
}

// Convert reads the STL file at src and writes the indexed OBJ equivalent to
// dst, creating or truncating it.
func Convert(src, dst string) error {
	_, err := ConvertWithOptions(src, dst, Options{})
	return err
}

// ConvertWithOptions parses all of src before dst is opened, so malformed
// input never leaves a destination file behind.
func ConvertWithOptions(src, dst string, opts Options) (*Result, error) {
	mesh, stats, err := LoadSTLFile(src, opts.Read)
	if err != nil {
		return nil, err
	}

	if err := writeOBJFile(dst, src, mesh); err != nil {
		return nil, err
	}

	return &Result{
		Source:      src,
		Destination: dst,
		Vertices:    mesh.VertexCount(),
		Faces:       mesh.FaceCount(),
		Stats:       stats,
	}, nil
}

func writeOBJFile(dst, src string, mesh *Mesh) error {
	file, err := os.Create(dst)
	if err != nil {
		return accessError("create OBJ file", dst, err)
	}

	if err := WriteOBJ(file, src, mesh); err != nil {
		file.Close()
		return accessError("write OBJ file", dst, err)
	}
	if err := file.Close(); err != nil {
		return accessError("close OBJ file", dst, err)
	}
	return nil
}

func (r *Result) String() string {
	return fmt.Sprintf("%s -> %s: %d vertices, %d faces", r.Source, r.Destination, r.Vertices, r.Faces)
}
