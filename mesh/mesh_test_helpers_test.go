package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMeshes holds small reference meshes shared by the tests
type TestMeshes struct {
	TwoTris    *Mesh // Unit square split along the 0-2 diagonal
	FanTris    *Mesh // Nine nodes, eight triangles around node 2
	SingleTet  *Mesh
	TwoTets    *Mesh // Share the face {1,2,3}
	Isolated   *Mesh // Triangle plus a node no element references
	squarePts  [][]float64
	squareTris [][]int
}

func GetStandardTestMeshes(t *testing.T) (tm *TestMeshes) {
	t.Helper()
	var err error
	tm = &TestMeshes{
		squarePts:  [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		squareTris: [][]int{{0, 1, 2}, {0, 3, 2}},
	}
	tm.TwoTris, err = NewMesh(2, tm.squarePts, tm.squareTris)
	require.NoError(t, err)
	tm.FanTris, err = NewMesh(2,
		[][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 2}, {2, 2}, {2, 0}, {1, 2}, {2, 1}},
		[][]int{{0, 1, 2}, {0, 3, 2}, {1, 2, 4}, {2, 4, 7}, {3, 6, 2}, {2, 8, 6}, {2, 8, 7}, {7, 8, 5}})
	require.NoError(t, err)
	tm.SingleTet, err = NewMesh(3,
		[][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]int{{0, 1, 2, 3}})
	require.NoError(t, err)
	tm.TwoTets, err = NewMesh(3,
		[][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}},
		[][]int{{0, 1, 2, 3}, {1, 2, 3, 4}})
	require.NoError(t, err)
	tm.Isolated, err = NewMesh(2,
		[][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}},
		[][]int{{0, 1, 2}})
	require.NoError(t, err)
	return
}

func createTempVTKFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.vtk")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}
