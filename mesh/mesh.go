package mesh

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Unreachable is the arrival time of a node no front has reached.
var Unreachable = math.Inf(1)

// ElementType is the simplex kind of a mesh, fixed by its dimension
type ElementType int

const (
	Triangle ElementType = iota
	Tet
)

func (e ElementType) String() string {
	return [...]string{"Triangle", "Tet"}[e]
}

// VTKCellType is the legacy VTK cell type code for the element
func (e ElementType) VTKCellType() int {
	return [...]int{5, 10}[e]
}

// NumVertices is the simplex vertex count, dim+1
func (e ElementType) NumVertices() int {
	return [...]int{3, 4}[e]
}

// Node is one mesh vertex. Nodes are owned by the Mesh arena and addressed by
// ID, which equals their index in Mesh.Nodes. The arrival time is stored as
// atomic bits so sweeps running in parallel can read it while another worker
// lowers it.
type Node struct {
	ID       int
	IsSource bool
	P        []float64 // Position, len == Mesh.Dim
	u        atomic.Uint64
}

// U returns the current arrival time estimate
func (n *Node) U() float64 {
	return math.Float64frombits(n.u.Load())
}

// SetU overwrites the arrival time, used only during initialization
func (n *Node) SetU(u float64) {
	n.u.Store(math.Float64bits(u))
}

// Lower replaces the arrival time with u when u is strictly smaller than the
// current value. The read, compare and write happen as one atomic step, so
// two workers lowering the same node concurrently never lose the smaller
// value. It reports whether the value was replaced.
func (n *Node) Lower(u float64) bool {
	if math.IsNaN(u) {
		return false
	}
	for {
		oldBits := n.u.Load()
		if !(u < math.Float64frombits(oldBits)) {
			return false
		}
		if n.u.CompareAndSwap(oldBits, math.Float64bits(u)) {
			return true
		}
	}
}

// Element is a simplex given by the indices of its dim+1 vertices in the
// node arena.
type Element []int

// Mesh is a simplicial mesh: one node arena shared by every element.
type Mesh struct {
	Title       string
	Dim         int
	ElementType ElementType
	Nodes       []Node
	Elements    []Element
}

// NewMesh assembles a mesh from point coordinates and cell connectivity.
// Every point must have dim coordinates, every cell dim+1 distinct vertex
// indices into points.
func NewMesh(dim int, points [][]float64, cells [][]int) (m *Mesh, err error) {
	var et ElementType
	switch dim {
	case 2:
		et = Triangle
	case 3:
		et = Tet
	default:
		return nil, &BuildError{Element: -1, Err: fmt.Errorf("%w: %d", ErrUnsupportedDim, dim)}
	}
	m = &Mesh{
		Dim:         dim,
		ElementType: et,
		Nodes:       make([]Node, len(points)),
		Elements:    make([]Element, len(cells)),
	}
	for i, p := range points {
		if len(p) != dim {
			return nil, &BuildError{Element: -1,
				Err: fmt.Errorf("%w: point %d has %d coordinates", ErrUnsupportedDim, i, len(p))}
		}
		node := &m.Nodes[i]
		node.ID = i
		node.P = append([]float64(nil), p...)
		node.SetU(Unreachable)
	}
	for k, cell := range cells {
		if err = m.checkElement(cell); err != nil {
			return nil, &BuildError{Element: k, Err: err}
		}
		m.Elements[k] = append(Element(nil), cell...)
	}
	return
}

func (m *Mesh) checkElement(cell []int) error {
	nv := m.ElementType.NumVertices()
	if len(cell) != nv {
		return fmt.Errorf("%w: got %d vertices, want %d", ErrDegenerateElement, len(cell), nv)
	}
	for i, v := range cell {
		if v < 0 || v >= len(m.Nodes) {
			return fmt.Errorf("%w: id %d", ErrUnknownNode, v)
		}
		for _, w := range cell[:i] {
			if v == w {
				return fmt.Errorf("%w: vertex %d repeated", ErrDegenerateElement, v)
			}
		}
	}
	return nil
}

func (m *Mesh) NumNodes() int    { return len(m.Nodes) }
func (m *Mesh) NumElements() int { return len(m.Elements) }

// Node returns the shared node with the given id
func (m *Mesh) Node(id int) *Node {
	return &m.Nodes[id]
}

// SetSources marks the given node ids as sources, clearing any previous marks
func (m *Mesh) SetSources(ids []int) error {
	for _, id := range ids {
		if id < 0 || id >= len(m.Nodes) {
			return &BuildError{Element: -1, Err: fmt.Errorf("%w: %d", ErrBadSource, id)}
		}
	}
	for i := range m.Nodes {
		m.Nodes[i].IsSource = false
	}
	for _, id := range ids {
		m.Nodes[id].IsSource = true
	}
	return nil
}

// Sources returns the ids of all source nodes in ascending order
func (m *Mesh) Sources() (ids []int) {
	for i := range m.Nodes {
		if m.Nodes[i].IsSource {
			ids = append(ids, i)
		}
	}
	return
}

// Field returns a copy of every node's arrival time, indexed by id
func (m *Mesh) Field() (u []float64) {
	u = make([]float64, len(m.Nodes))
	for i := range m.Nodes {
		u[i] = m.Nodes[i].U()
	}
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	if m.Title != "" {
		fmt.Printf("  Title: %s\n", m.Title)
	}
	fmt.Printf("  Dimension: %d\n", m.Dim)
	fmt.Printf("  Vertices: %d\n", m.NumNodes())
	fmt.Printf("  Elements: %d (%s)\n", m.NumElements(), m.ElementType)
	fmt.Printf("  Sources: %d\n", len(m.Sources()))
}
