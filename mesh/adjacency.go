package mesh

import (
	"sort"

	"github.com/james-bowman/sparse"
)

// Adjacency is the node to incident element index of a mesh. It is derived
// once from the element list and is read-only afterwards, so any number of
// goroutines may query it concurrently.
type Adjacency struct {
	mesh *Mesh
	// Incidence is the NumNodes x NumElements matrix with a one wherever the
	// element lists the node as a vertex
	Incidence *sparse.CSR
	NtoE      [][]int // Node to element connectivity, ascending element index
}

// NewAdjacency builds the incidence of every node of m. The mesh elements
// are validated by NewMesh, so every element contributes dim+1 entries.
func NewAdjacency(m *Mesh) (adj *Adjacency) {
	var (
		Nn, Ne = m.NumNodes(), m.NumElements()
	)
	adj = &Adjacency{
		mesh: m,
		NtoE: make([][]int, Nn),
	}
	if Nn == 0 || Ne == 0 {
		return
	}
	dok := sparse.NewDOK(Nn, Ne)
	for k, el := range m.Elements {
		for _, v := range el {
			dok.Set(v, k, 1)
		}
	}
	adj.Incidence = dok.ToCSR()
	for n := 0; n < Nn; n++ {
		elems := make([]int, 0, adj.Incidence.RowNNZ(n))
		adj.Incidence.DoRowNonZero(n, func(_, k int, _ float64) {
			elems = append(elems, k)
		})
		sort.Ints(elems)
		adj.NtoE[n] = elems
	}
	return
}

// Mesh returns the mesh the index was built from
func (adj *Adjacency) Mesh() *Mesh { return adj.mesh }

// Incident returns the elements that list node as a vertex. The slice is
// shared with the index and must not be modified.
func (adj *Adjacency) Incident(node int) []int {
	return adj.NtoE[node]
}

// Neighbors returns every node that shares at least one element with node,
// excluding node itself, without duplicates and in ascending order. The set
// is recomputed on every call.
func (adj *Adjacency) Neighbors(node int) (nbrs []int) {
	var (
		incident = adj.NtoE[node]
	)
	if len(incident) == 0 {
		return nil
	}
	nbrs = make([]int, 0, len(incident)*adj.mesh.Dim)
	for _, k := range incident {
		for _, v := range adj.mesh.Elements[k] {
			if v != node {
				nbrs = append(nbrs, v)
			}
		}
	}
	sort.Ints(nbrs)
	uniq := nbrs[:1]
	for _, v := range nbrs[1:] {
		if v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}
	return uniq
}
