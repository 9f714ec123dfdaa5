package meshconv

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertSharedTriangle(t *testing.T) {
	src := writeTemp(t, "shared.stl", twoTriangleSTL)
	dst := filepath.Join(t.TempDir(), "shared.obj")

	require.NoError(t, Convert(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	expected := fmt.Sprintf("# Converted from '%s'\n", src) +
		"# vertex count = 3\n" +
		"# face count = 2\n" +
		"v 0 0 0\n" +
		"v 1 0 0\n" +
		"v 0 1 0\n" +
		"f 1 2 3\n" +
		"f 1 2 3\n"
	assert.Equal(t, expected, string(got))
}

func TestConvertEmptyInput(t *testing.T) {
	src := writeTemp(t, "empty.stl", "solid nothing\nendsolid nothing\n")
	dst := filepath.Join(t.TempDir(), "empty.obj")

	res, err := ConvertWithOptions(src, dst, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Vertices)
	assert.Equal(t, 0, res.Faces)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(got)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# vertex count = 0", lines[1])
	assert.Equal(t, "# face count = 0", lines[2])
}

func TestConvertMalformedLeavesNoDestination(t *testing.T) {
	src := writeTemp(t, "bad.stl", "solid bad\nvertex 0 0 0\nvertex 1.0 2.0\n")
	dst := filepath.Join(t.TempDir(), "bad.obj")

	err := Convert(src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "vertex 1.0 2.0")
	assert.Contains(t, err.Error(), "line 3")

	_, statErr := os.Stat(dst)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestConvertAccessErrors(t *testing.T) {
	dir := t.TempDir()

	err := Convert(filepath.Join(dir, "missing.stl"), filepath.Join(dir, "out.obj"))
	assert.True(t, errors.Is(err, ErrAccess))
	assert.False(t, errors.Is(err, ErrParse))

	src := writeTemp(t, "ok.stl", twoTriangleSTL)
	err = Convert(src, filepath.Join(dir, "no", "such", "dir", "out.obj"))
	assert.True(t, errors.Is(err, ErrAccess))

	// A directory opens fine on most systems but cannot be read as a mesh.
	err = Convert(dir, filepath.Join(dir, "out.obj"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccess))
	assert.False(t, errors.Is(err, ErrParse))
	assert.NotContains(t, err.Error(), "parsing")
	assert.NoFileExists(t, filepath.Join(dir, "out.obj"))
}

func TestConvertTruncatesExistingDestination(t *testing.T) {
	src := writeTemp(t, "shared.stl", twoTriangleSTL)
	dst := writeTemp(t, "shared.obj", strings.Repeat("stale\n", 1000))

	require.NoError(t, Convert(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.NotContains(t, string(got), "stale")
}

// randomSTL draws vertices from a small pool so repeats are common.
func randomSTL(r *rand.Rand, records int) (string, map[Vertex]struct{}) {
	pool := make([]Vertex, 1+r.IntN(20))
	for i := range pool {
		pool[i] = Vertex{r.NormFloat64(), float64(r.IntN(4)), r.Float64() * 1e6}
	}

	distinct := make(map[Vertex]struct{})
	var sb strings.Builder
	sb.WriteString("solid random\n")
	for i := 0; i < records; i++ {
		if i%3 == 0 {
			sb.WriteString("facet normal 0 0 0\nouter loop\n")
		}
		v := pool[r.IntN(len(pool))]
		distinct[v] = struct{}{}
		fmt.Fprintf(&sb, "  vertex %s %s %s\n", FormatCoordinate(v[0]), FormatCoordinate(v[1]), FormatCoordinate(v[2]))
		if i%3 == 2 {
			sb.WriteString("endloop\nendfacet\n")
		}
	}
	sb.WriteString("endsolid random\n")
	return sb.String(), distinct
}

func TestConvertProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 40; round++ {
		records := r.IntN(200)
		content, distinct := randomSTL(r, records)
		src := writeTemp(t, "random.stl", content)
		dst := filepath.Join(t.TempDir(), "random.obj")

		require.NoError(t, Convert(src, dst))
		first, err := os.ReadFile(dst)
		require.NoError(t, err)

		// Determinism.
		require.NoError(t, Convert(src, dst))
		second, err := os.ReadFile(dst)
		require.NoError(t, err)
		require.Equal(t, string(first), string(second))

		vertexLines, faces := scanOBJ(t, string(first))
		assert.Len(t, vertexLines, len(distinct), "round %d", round)
		assert.Len(t, faces, records/3, "round %d", round)
		for _, f := range faces {
			for _, index := range f {
				assert.GreaterOrEqual(t, index, 1)
				assert.LessOrEqual(t, index, len(vertexLines))
			}
		}
	}
}

func scanOBJ(t *testing.T, doc string) ([]string, [][3]int) {
	t.Helper()
	var (
		vertices []string
		faces    [][3]int
	)
	scanner := bufio.NewScanner(strings.NewReader(doc))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch fields[0] {
		case "v":
			require.Len(t, fields, 4)
			vertices = append(vertices, scanner.Text())
		case "f":
			require.Len(t, fields, 4)
			var f [3]int
			for i := range f {
				n, err := strconv.Atoi(fields[i+1])
				require.NoError(t, err)
				f[i] = n
			}
			faces = append(faces, f)
		}
	}
	require.NoError(t, scanner.Err())
	return vertices, faces
}
