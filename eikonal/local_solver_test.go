package eikonal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofim/mesh"
)

func TestHopfLaxSimplexUpdate2D(t *testing.T) {
	hl, err := NewHopfLax(2, nil)
	require.NoError(t, err)
	testCases := []struct {
		name string
		x    []float64
		pts  [][]float64
		vals []float64
		want float64
	}{
		{"nearest vertex", []float64{1, 1}, [][]float64{{0, 0}, {0, 1}}, []float64{0, 0}, 1},
		{"foot inside edge", []float64{0.5, 1}, [][]float64{{0, 0}, {1, 0}}, []float64{0, 0}, 1},
		// Plane wave along (0.6, 0.8) is reproduced exactly
		{"oblique plane wave", []float64{1, 1}, [][]float64{{0, 0}, {1, 0}}, []float64{0, 0.6}, 1.4},
		// Gradient along the edge equals the speed: only vertices are causal
		{"non causal edge", []float64{0, 1}, [][]float64{{0, 0}, {1, 0}}, []float64{0, 1}, 1},
		{"one vertex unreached", []float64{0, 2}, [][]float64{{0, 0}, {1, 0}}, []float64{0.5, math.Inf(1)}, 2.5},
		{"coincident face vertices", []float64{1, 0}, [][]float64{{0, 0}, {0, 0}}, []float64{0, 0}, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, hl.SimplexUpdate(tc.x, tc.pts, tc.vals), 1e-12)
		})
	}

	u := hl.SimplexUpdate([]float64{1, 1}, [][]float64{{0, 0}, {0, 1}}, []float64{math.Inf(1), math.Inf(1)})
	assert.True(t, math.IsInf(u, 1))
	u = hl.SimplexUpdate([]float64{1, 1}, [][]float64{{0, 0}, {0, 1}}, []float64{math.NaN(), math.NaN()})
	assert.True(t, math.IsInf(u, 1))
}

func TestHopfLaxSimplexUpdate3D(t *testing.T) {
	hl, err := NewHopfLax(3, nil)
	require.NoError(t, err)
	face := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	// Characteristic hits the face interior
	assert.InDelta(t, 2., hl.SimplexUpdate([]float64{0.2, 0.3, 2}, face, []float64{0, 0, 0}), 1e-12)
	// Foot outside the face: nearest point is on the edge x+y=1
	want := math.Sqrt(0.5 + 1)
	assert.InDelta(t, want, hl.SimplexUpdate([]float64{1, 1, 1}, face, []float64{0, 0, 0}), 1e-12)
	// Plane wave along the unit diagonal
	d := []float64{1 / math.Sqrt(3), 1 / math.Sqrt(3), 1 / math.Sqrt(3)}
	vals := make([]float64, 3)
	for i, p := range face {
		vals[i] = d[0]*p[0] + d[1]*p[1] + d[2]*p[2]
	}
	x := []float64{0.4, 0.4, 0.2}
	assert.InDelta(t, d[0]*x[0]+d[1]*x[1]+d[2]*x[2],
		hl.SimplexUpdate(x, face, vals), 1e-12)
}

func TestHopfLaxAnisotropic(t *testing.T) {
	// Speed 2 along x, 1 along y
	M, err := AnisotropyFromRows([][]float64{{4, 0}, {0, 1}})
	require.NoError(t, err)
	hl, err := NewHopfLax(2, M)
	require.NoError(t, err)
	pts := [][]float64{{0, 0}, {0, 5}}
	assert.InDelta(t, 1., hl.SimplexUpdate([]float64{2, 0}, pts, []float64{0, 100}), 1e-12)
	assert.InDelta(t, 2., hl.SimplexUpdate([]float64{0, -2}, pts, []float64{0, 100}), 1e-12)

	// Identity recovers the isotropic solver
	I, err := AnisotropyFromRows([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	iso, err := NewHopfLax(2, I)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, iso.SimplexUpdate([]float64{1, 1}, [][]float64{{0, 0}, {1, 0}}, []float64{0, 0.6}), 1e-12)
}

func TestHopfLaxErrors(t *testing.T) {
	_, err := NewHopfLax(2, mat.NewSymDense(2, []float64{1, 2, 2, 1}))
	assert.ErrorIs(t, err, ErrNotSPD)
	_, err = NewHopfLax(3, mat.NewSymDense(2, []float64{1, 0, 0, 1}))
	assert.ErrorIs(t, err, ErrNotSPD)

	_, err = AnisotropyFromRows([][]float64{{1, 0.5}, {0, 1}})
	assert.ErrorIs(t, err, ErrNotSPD)
	_, err = AnisotropyFromRows([][]float64{{1, 0}, {0}})
	assert.ErrorIs(t, err, ErrNotSPD)
	M, err := AnisotropyFromRows(nil)
	assert.NoError(t, err)
	assert.Nil(t, M)
}

func TestHopfLaxLocalUpdate(t *testing.T) {
	m, err := mesh.NewMesh(2, [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		[][]int{{0, 1, 2}, {0, 3, 2}})
	require.NoError(t, err)
	for _, s := range []int{0, 1, 3} {
		m.Node(s).SetU(0)
	}
	hl, err := NewHopfLax(2, nil)
	require.NoError(t, err)
	adj := mesh.NewAdjacency(m)
	assert.InDelta(t, 1., hl.LocalUpdate(m, 2, adj.Incident(2)), 1e-12)
	// Element 1 does not contain node 1 and is skipped
	assert.InDelta(t, 1., hl.LocalUpdate(m, 1, []int{0, 1}), 1e-12)
	assert.True(t, math.IsInf(hl.LocalUpdate(m, 2, nil), 1))
}
