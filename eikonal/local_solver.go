package eikonal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofim/mesh"
)

var ErrNotSPD = errors.New("anisotropy matrix is not symmetric positive definite")

const (
	// Barycentric slack accepted when testing that a characteristic lies in
	// a face
	faceTol = 1e-12
	// Faces whose Gram matrix is worse conditioned than this are treated as
	// degenerate and only their sub-faces are used
	maxFaceCond = 1e12
)

// LocalSolver computes the arrival time at one node from the tentative
// values of its neighbors. Implementations must be safe for concurrent use
// and must return mesh.Unreachable, never NaN, when no incident element
// yields a causal value.
type LocalSolver interface {
	LocalUpdate(m *mesh.Mesh, node int, incident []int) float64
}

// HopfLax solves the local eikonal problem sqrt(grad(u)' M grad(u)) = 1 on
// each incident simplex through the Hopf-Lax formula
//
//	u(x) = min over y in the opposite face of u(y) + |x - y|
//
// where |v| = sqrt(v' M^-1 v) and u(y) is the linear interpolation of the
// face vertex values. M is the identity in the isotropic case.
type HopfLax struct {
	Dim  int
	Minv *mat.SymDense // Inverse of the anisotropy matrix
}

// NewHopfLax returns the local solver for the given dimension. A nil M
// selects the isotropic (Euclidean) metric.
func NewHopfLax(dim int, M mat.Symmetric) (hl *HopfLax, err error) {
	hl = &HopfLax{Dim: dim}
	if M == nil {
		hl.Minv = identity(dim)
		return
	}
	if M.SymmetricDim() != dim {
		return nil, fmt.Errorf("%w: matrix is %dx%d, mesh dimension is %d",
			ErrNotSPD, M.SymmetricDim(), M.SymmetricDim(), dim)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(M); !ok {
		return nil, ErrNotSPD
	}
	hl.Minv = mat.NewSymDense(dim, nil)
	if err = chol.InverseTo(hl.Minv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSPD, err)
	}
	return
}

// AnisotropyFromRows converts a row-major square matrix, as read from the
// input parameters, into a symmetric matrix. An empty input means isotropic
// and returns a nil matrix, which NewHopfLax accepts.
func AnisotropyFromRows(rows [][]float64) (mat.Symmetric, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	n := len(rows)
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrNotSPD, i, len(row), n)
		}
		for j := 0; j < i; j++ {
			if math.Abs(row[j]-rows[j][i]) > 1e-12*math.Max(1, math.Abs(row[j])) {
				return nil, fmt.Errorf("%w: entries (%d,%d) and (%d,%d) differ", ErrNotSPD, i, j, j, i)
			}
		}
		data = append(data, row...)
	}
	return mat.NewSymDense(n, data), nil
}

func identity(dim int) *mat.SymDense {
	I := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		I.SetSym(i, i, 1)
	}
	return I
}

// LocalUpdate returns the minimum over the incident elements of the causal
// arrival time at node.
func (hl *HopfLax) LocalUpdate(m *mesh.Mesh, node int, incident []int) float64 {
	var (
		best   = mesh.Unreachable
		x      = m.Node(node).P
		others = make([]int, 0, hl.Dim)
	)
	for _, k := range incident {
		others = others[:0]
		for _, v := range m.Elements[k] {
			if v != node {
				others = append(others, v)
			}
		}
		if len(others) != hl.Dim { // Node is not a vertex of element k
			continue
		}
		pts := make([][]float64, len(others))
		vals := make([]float64, len(others))
		for i, v := range others {
			nd := m.Node(v)
			pts[i], vals[i] = nd.P, nd.U()
		}
		if u := hl.SimplexUpdate(x, pts, vals); u < best {
			best = u
		}
	}
	return best
}

// SimplexUpdate minimizes the Hopf-Lax functional over the face spanned by
// pts (with values vals) as seen from x. Every sub-face is tried and the
// smallest causal candidate wins; the vertices always are candidates, so a
// finite vertex value always gives a finite answer.
func (hl *HopfLax) SimplexUpdate(x []float64, pts [][]float64, vals []float64) float64 {
	var (
		best = mesh.Unreachable
		nf   = len(pts)
	)
	for mask := 1; mask < 1<<nf; mask++ {
		face := make([]int, 0, nf)
		finite := true
		for i := 0; i < nf; i++ {
			if mask&(1<<i) != 0 {
				face = append(face, i)
				finite = finite && !math.IsInf(vals[i], 0) && !math.IsNaN(vals[i])
			}
		}
		if !finite {
			continue
		}
		if u, ok := hl.faceUpdate(x, pts, vals, face); ok && u < best {
			best = u
		}
	}
	return best
}

// faceUpdate finds the stationary point of u(y) + |x - y| on the relative
// interior of a face. With E the edge vectors from the first face vertex,
// w = x - p0, du the value differences, A = E' G E and b = E' G w (G the
// inverse metric), stationarity gives lambda = A^-1 (b - r du) where r, the
// distance to the face point, solves r^2 (1 - du' A^-1 du) = |w_perp|^2.
func (hl *HopfLax) faceUpdate(x []float64, pts [][]float64, vals []float64, face []int) (u float64, ok bool) {
	var (
		dim = hl.Dim
		p0  = pts[face[0]]
		u0  = vals[face[0]]
		w   = mat.NewVecDense(dim, floats.SubTo(make([]float64, dim), x, p0))
		wGw = mat.Inner(w, hl.Minv, w)
	)
	if len(face) == 1 {
		u = u0 + math.Sqrt(math.Max(wGw, 0))
		return u, !math.IsNaN(u)
	}
	var (
		ne    = len(face) - 1
		edges = make([]*mat.VecDense, ne)
		du    = mat.NewVecDense(ne, nil)
		b     = mat.NewVecDense(ne, nil)
		A     = mat.NewSymDense(ne, nil)
	)
	for i := 0; i < ne; i++ {
		pi := pts[face[i+1]]
		edges[i] = mat.NewVecDense(dim, floats.SubTo(make([]float64, dim), pi, p0))
		du.SetVec(i, vals[face[i+1]]-u0)
		b.SetVec(i, mat.Inner(edges[i], hl.Minv, w))
	}
	for i := 0; i < ne; i++ {
		for j := i; j < ne; j++ {
			A.SetSym(i, j, mat.Inner(edges[i], hl.Minv, edges[j]))
		}
	}
	var chol mat.Cholesky
	if !chol.Factorize(A) || chol.Cond() > maxFaceCond {
		return 0, false
	}
	var AinvDu, AinvB mat.VecDense
	if err := chol.SolveVecTo(&AinvDu, du); err != nil {
		return 0, false
	}
	if err := chol.SolveVecTo(&AinvB, b); err != nil {
		return 0, false
	}
	q := mat.Dot(du, &AinvDu)
	if q >= 1 { // Face gradient is faster than the local speed, not causal
		return 0, false
	}
	perp := math.Max(wGw-mat.Dot(b, &AinvB), 0)
	r := math.Sqrt(perp / (1 - q))
	var (
		lambda = make([]float64, ne)
		sum    float64
	)
	for i := range lambda {
		lambda[i] = AinvB.AtVec(i) - r*AinvDu.AtVec(i)
		if lambda[i] < -faceTol {
			return 0, false
		}
		sum += lambda[i]
	}
	if sum > 1+faceTol {
		return 0, false
	}
	u = u0 + floats.Dot(lambda, du.RawVector().Data) + r
	if math.IsNaN(u) {
		return 0, false
	}
	return u, true
}
