package meshconv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FormatCoordinate renders a coordinate in Go's shortest round-tripping
// decimal form, the same text %v produces for a float64.
func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteOBJ writes m as a Wavefront OBJ document. The header names source and
// the counts; face indices are written 1-based.
func WriteOBJ(w io.Writer, source string, m *Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Converted from '%s'\n", source)
	fmt.Fprintf(bw, "# vertex count = %d\n", m.VertexCount())
	fmt.Fprintf(bw, "# face count = %d\n", m.FaceCount())

	buf := make([]byte, 0, 96)
	for _, v := range m.Vertices {
		buf = append(buf[:0], 'v')
		for _, c := range v {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, c, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	for _, f := range m.Faces {
		buf = append(buf[:0], 'f')
		for _, index := range f {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(index+1), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func LoadOBJFile(fileName string) (*Mesh, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, accessError("open OBJ file", fileName, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, accessError("stat OBJ file", fileName, err)
	}
	if info.IsDir() {
		return nil, accessError("open OBJ file", fileName, errIsDirectory)
	}

	mesh, err := ReadOBJ(file)
	if err != nil {
		return nil, loadError("OBJ", fileName, err)
	}
	return mesh, nil
}

// ReadOBJ reads the geometry of an OBJ document: "v" and "f" records. Faces
// with more than three corners are fan triangulated; texture and normal
// references in "v/vt/vn" corners are ignored. Repeated "v" records collapse
// onto one vertex and the faces are remapped to match.
func ReadOBJ(reader io.Reader) (*Mesh, error) {
	mesh := NewMesh()
	remap := make([]int, 0, 64)

	lines := newLineReader(reader)

	for lines.Next() {
		lineNo := lines.Line()
		line := strings.TrimSpace(lines.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "vertex needs 3 coordinates"}
			}
			var v Vertex
			for axis := range v {
				val, err := strconv.ParseFloat(fields[axis+1], 64)
				if err != nil {
					return nil, &ParseError{Line: lineNo, Text: line, Reason: "could not parse coordinate", Err: err}
				}
				v[axis] = val
			}
			remap = append(remap, mesh.AddVertex(v))

		case "f":
			if len(fields) < 4 {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "face needs at least 3 corners"}
			}
			corners := make([]int, len(fields)-1)
			for i, ref := range fields[1:] {
				index, err := resolveOBJIndex(ref, len(remap))
				if err != nil {
					return nil, &ParseError{Line: lineNo, Text: line, Reason: "bad face index", Err: err}
				}
				corners[i] = remap[index]
			}
			for i := 1; i < len(corners)-1; i++ {
				mesh.AddFace(Face{corners[0], corners[i], corners[i+1]})
			}
		}
	}

	if err := lines.Err(); err != nil {
		return nil, accessError("read", "OBJ source", err)
	}
	return mesh, nil
}

// resolveOBJIndex turns a 1-based or negative relative corner reference into a
// zero-based index into the n vertices read so far.
func resolveOBJIndex(ref string, n int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return 0, err
	}

	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range [1, %d]", i, n)
}
