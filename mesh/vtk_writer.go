package mesh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// PointField is a named scalar value per mesh node, written as POINT_DATA
type PointField struct {
	Name   string
	Values []float64
}

// WriteVTK writes m as a legacy ASCII VTK unstructured grid with one SCALARS
// block per field. Unreachable (infinite) values are written as the largest
// finite double so viewers can load the file.
func WriteVTK(filename string, m *Mesh, fields ...PointField) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	if err = EncodeVTK(file, m, fields...); err != nil {
		file.Close()
		return &WriteError{Path: filename, Err: err}
	}
	if err = file.Close(); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	return nil
}

// EncodeVTK writes the legacy VTK layout of m to w
func EncodeVTK(w io.Writer, m *Mesh, fields ...PointField) error {
	for _, f := range fields {
		if len(f.Values) != m.NumNodes() {
			return fmt.Errorf("field %q has %d values for %d nodes", f.Name, len(f.Values), m.NumNodes())
		}
	}
	var (
		bw    = bufio.NewWriter(w)
		title = m.Title
		nv    = m.ElementType.NumVertices()
	)
	if title == "" {
		title = "gofim mesh"
	}
	fmt.Fprintf(bw, "# vtk DataFile Version 3.0\n%s\nASCII\nDATASET UNSTRUCTURED_GRID\n", title)
	fmt.Fprintf(bw, "POINTS %d double\n", m.NumNodes())
	for i := range m.Nodes {
		var xyz [3]float64
		copy(xyz[:], m.Nodes[i].P)
		fmt.Fprintf(bw, "%s %s %s\n", formatFloat(xyz[0]), formatFloat(xyz[1]), formatFloat(xyz[2]))
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", m.NumElements(), m.NumElements()*(nv+1))
	for _, el := range m.Elements {
		fmt.Fprintf(bw, "%d", nv)
		for _, v := range el {
			fmt.Fprintf(bw, " %d", v)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", m.NumElements())
	for range m.Elements {
		fmt.Fprintf(bw, "%d\n", m.ElementType.VTKCellType())
	}
	if len(fields) != 0 {
		fmt.Fprintf(bw, "POINT_DATA %d\n", m.NumNodes())
	}
	for _, f := range fields {
		fmt.Fprintf(bw, "SCALARS %s double 1\nLOOKUP_TABLE default\n", f.Name)
		for _, v := range f.Values {
			if math.IsInf(v, 1) {
				v = math.MaxFloat64
			}
			fmt.Fprintln(bw, formatFloat(v))
		}
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
