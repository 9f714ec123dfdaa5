package meshconv

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

type Format int

const (
	FormatAuto Format = iota
	FormatASCII
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return "auto"
	}
}

// ParseFormat accepts "", "auto", "ascii" and "binary".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "ascii":
		return FormatASCII, nil
	case "binary":
		return FormatBinary, nil
	}
	return FormatAuto, fmt.Errorf("unknown STL format %q", s)
}

type ReadOptions struct {
	Format Format

	// Strict rejects vertex records outside an "outer loop ... endloop"
	// block and loops that do not hold exactly three vertices.
	Strict bool
}

// ReadStats describes what the reader saw, beyond the resulting mesh.
type ReadStats struct {
	Format    Format
	Lines     int
	Records   int // vertex records, duplicates included
	Discarded int // trailing vertex records that did not complete a face
}

const (
	stlVertexKeyword = "vertex"
	stlHeaderSize    = 80
	stlRecordSize    = 50
)

func LoadSTLFile(fileName string, opts ReadOptions) (*Mesh, ReadStats, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, ReadStats{}, accessError("open STL file", fileName, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, ReadStats{}, accessError("stat STL file", fileName, err)
	}
	if info.IsDir() {
		return nil, ReadStats{}, accessError("open STL file", fileName, errIsDirectory)
	}

	reader := bufio.NewReader(file)

	format := opts.Format
	if format == FormatAuto {
		head, _ := reader.Peek(stlHeaderSize + 4)
		format = detectFormat(head, info.Size())
	}

	var (
		mesh  *Mesh
		stats ReadStats
	)
	if format == FormatBinary {
		mesh, stats, err = ReadBinarySTL(reader)
	} else {
		mesh, stats, err = ReadSTL(reader, opts)
	}
	if err != nil {
		return nil, stats, loadError("STL", fileName, err)
	}
	return mesh, stats, nil
}

// detectFormat treats the data as binary only when its size matches the
// triangle count in the binary header exactly. Binary files often start with
// "solid" too, so the keyword alone decides nothing.
func detectFormat(head []byte, size int64) Format {
	if len(head) < stlHeaderSize+4 || size < 0 {
		return FormatASCII
	}
	count := int64(binary.LittleEndian.Uint32(head[stlHeaderSize:]))
	if size == stlHeaderSize+4+count*stlRecordSize {
		return FormatBinary
	}
	return FormatASCII
}

// ReadSTL reads an ASCII STL stream. Only "vertex" records carry meaning;
// every run of three records forms one face, and a trailing partial face is
// dropped.
func ReadSTL(reader io.Reader, opts ReadOptions) (*Mesh, ReadStats, error) {
	mesh := NewMesh()
	stats := ReadStats{Format: FormatASCII}

	lines := newLineReader(reader)

	var (
		tri        triangleAssembler
		inLoop     bool
		loopLine   int
		loopText   string
		loopVertex int
	)

	for lines.Next() {
		stats.Lines = lines.Line()
		line := strings.TrimSpace(lines.Text())
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		if opts.Strict {
			switch parts[0] {
			case "outer":
				if inLoop {
					return nil, stats, &ParseError{Line: stats.Lines, Text: line, Reason: "loop opened inside another loop"}
				}
				inLoop, loopLine, loopText, loopVertex = true, stats.Lines, line, 0
				continue
			case "endloop":
				if !inLoop {
					return nil, stats, &ParseError{Line: stats.Lines, Text: line, Reason: "endloop without outer loop"}
				}
				if loopVertex != 3 {
					return nil, stats, &ParseError{
						Line:   loopLine,
						Text:   loopText,
						Reason: fmt.Sprintf("loop has %d vertices, want 3", loopVertex),
					}
				}
				inLoop = false
				continue
			}
		}

		if parts[0] != stlVertexKeyword {
			continue
		}

		v, err := parseVertexRecord(parts)
		if err != nil {
			err.Line = stats.Lines
			err.Text = line
			return nil, stats, err
		}
		if opts.Strict {
			if !inLoop {
				return nil, stats, &ParseError{Line: stats.Lines, Text: line, Reason: "vertex outside outer loop"}
			}
			loopVertex++
		}

		stats.Records++
		if face, done := tri.push(mesh.AddVertex(v)); done {
			mesh.AddFace(face)
		}
	}

	if err := lines.Err(); err != nil {
		return nil, stats, accessError("read", "STL source", err)
	}
	if opts.Strict && inLoop {
		return nil, stats, &ParseError{Line: loopLine, Text: loopText, Reason: "loop not closed before end of file"}
	}

	stats.Discarded = tri.leftover()
	return mesh, stats, nil
}

func parseVertexRecord(parts []string) (Vertex, *ParseError) {
	var v Vertex
	if len(parts) < 4 {
		return v, &ParseError{
			Reason: fmt.Sprintf("vertex record needs 3 coordinates, found %d", len(parts)-1),
		}
	}
	for axis := 0; axis < 3; axis++ {
		val, err := strconv.ParseFloat(parts[axis+1], 64)
		if err != nil {
			return v, &ParseError{
				Reason: fmt.Sprintf("could not parse coordinate %q", parts[axis+1]),
				Err:    err,
			}
		}
		v[axis] = val
	}
	return v, nil
}

// ReadBinarySTL reads the 80-byte header, the little-endian triangle count and
// then 50-byte triangle records. Coordinates are widened from float32 before
// they are compared, so deduplication stays exact.
func ReadBinarySTL(reader io.Reader) (*Mesh, ReadStats, error) {
	mesh := NewMesh()
	stats := ReadStats{Format: FormatBinary}

	var header struct {
		H    [stlHeaderSize]byte
		NTri uint32
	}
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, stats, binaryReadError("binary STL header", err)
	}

	record := make([]byte, stlRecordSize)
	for i := 0; i < int(header.NTri); i++ {
		if _, err := io.ReadFull(reader, record); err != nil {
			return nil, stats, binaryReadError(fmt.Sprintf("binary STL truncated at triangle %d of %d", i, header.NTri), err)
		}

		var face Face
		for corner := range face {
			var v Vertex
			for axis := range v {
				// 12 bytes of facet normal come first.
				offset := 12 + 12*corner + 4*axis
				v[axis] = float64(math.Float32frombits(binary.LittleEndian.Uint32(record[offset:])))
			}
			face[corner] = mesh.AddVertex(v)
		}
		stats.Records += 3
		mesh.AddFace(face)
	}

	return mesh, stats, nil
}

// binaryReadError treats running out of data as malformed content and any
// other reader failure as an access error.
func binaryReadError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: %w", ErrParse, what, err)
	}
	return accessError("read", "STL source", err)
}
