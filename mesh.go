package meshconv

// Vertex is a position in model space. Two vertices are the same vertex only
// when all three coordinates compare equal with ==.
type Vertex [3]float64

type Mesh struct {
	Vertices []Vertex
	Faces    []Face

	vertexIndex map[Vertex]int
}

func NewMesh() *Mesh {
	return &Mesh{
		Vertices:    make([]Vertex, 0, 64),
		Faces:       make([]Face, 0, 64),
		vertexIndex: make(map[Vertex]int),
	}
}

// AddVertex returns the zero-based index of v, appending it to the vertex
// list the first time it is seen.
func (m *Mesh) AddVertex(v Vertex) int {
	if index, found := m.vertexIndex[v]; found {
		return index
	}

	newIndex := len(m.Vertices)
	m.Vertices = append(m.Vertices, v)
	m.vertexIndex[v] = newIndex

	return newIndex
}

func (m *Mesh) AddFace(f Face) {
	m.Faces = append(m.Faces, f)
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// Bounds returns the axis-aligned extents of the vertex list. ok is false for
// a mesh with no vertices.
func (m *Mesh) Bounds() (min, max Vertex, ok bool) {
	if len(m.Vertices) == 0 {
		return min, max, false
	}

	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < min[axis] {
				min[axis] = v[axis]
			}
			if v[axis] > max[axis] {
				max[axis] = v[axis]
			}
		}
	}
	return min, max, true
}
