package meshconv

// Face is a triangle given as three zero-based vertex indices in the order the
// vertices were declared.
type Face [3]int

// triangleAssembler groups a stream of vertex indices into faces, three at a
// time. It trusts the stream: no facet or loop boundaries are consulted.
type triangleAssembler struct {
	pending [3]int
	count   int
}

// push adds one index and reports the completed face once three indices have
// accumulated since the last one.
func (t *triangleAssembler) push(index int) (Face, bool) {
	t.pending[t.count] = index
	t.count++
	if t.count < 3 {
		return Face{}, false
	}

	t.count = 0
	return Face(t.pending), true
}

// leftover is the number of buffered indices that never formed a face.
func (t *triangleAssembler) leftover() int {
	return t.count
}
