package mesh

import (
	"fmt"
	"math/rand"

	"github.com/pradeep-pyro/triangle"
)

// GenerateSquare Delaunay triangulates an nx by ny grid of points covering
// the unit square. Interior points are displaced by up to jitter times the
// grid spacing, using seed so the same arguments give the same mesh.
func GenerateSquare(nx, ny int, jitter float64, seed int64) (m *Mesh, err error) {
	if nx < 2 || ny < 2 {
		return nil, &BuildError{Element: -1, Err: fmt.Errorf("grid must be at least 2x2, got %dx%d", nx, ny)}
	}
	if jitter < 0 || jitter >= 0.5 {
		return nil, &BuildError{Element: -1, Err: fmt.Errorf("jitter must be in [0, 0.5), got %g", jitter)}
	}
	var (
		rng    = rand.New(rand.NewSource(seed))
		dx, dy = 1 / float64(nx-1), 1 / float64(ny-1)
		pts    = make([][2]float64, 0, nx*ny)
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x, y := float64(i)*dx, float64(j)*dy
			if i != 0 && i != nx-1 && j != 0 && j != ny-1 {
				x += jitter * dx * (2*rng.Float64() - 1)
				y += jitter * dy * (2*rng.Float64() - 1)
			}
			pts = append(pts, [2]float64{x, y})
		}
	}
	tris := triangle.Delaunay(pts)
	var (
		points = make([][]float64, len(pts))
		cells  = make([][]int, len(tris))
	)
	for i, p := range pts {
		points[i] = []float64{p[0], p[1]}
	}
	for k, t := range tris {
		cells[k] = []int{int(t[0]), int(t[1]), int(t[2])}
	}
	if m, err = NewMesh(2, points, cells); err != nil {
		return
	}
	m.Title = fmt.Sprintf("Delaunay %dx%d unit square", nx, ny)
	return
}
