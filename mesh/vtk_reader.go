package mesh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadVTK reads a legacy ASCII VTK unstructured grid holding only simplices
// of the given dimension: triangles for dim 2, tetrahedra for dim 3.
func ReadVTK(filename string, dim int) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}
	defer file.Close()
	return ParseVTK(file, filename, dim)
}

// ParseVTK reads the legacy VTK layout from r; name is used in errors only.
//
// The layout is four header lines (version, title, ASCII, DATASET), then
//
//	POINTS <n> <type>   n tuples of dim or 3 coordinates
//	CELLS <n> <size>    n records "<dim+1> v0 ... vdim"
//
// Anything after the cells, like CELL_TYPES, is ignored.
func ParseVTK(r io.Reader, name string, dim int) (m *Mesh, err error) {
	if dim != 2 && dim != 3 {
		return nil, &LoadError{Path: name, Err: fmt.Errorf("%w: %d", ErrUnsupportedDim, dim)}
	}
	var (
		tk     = newTokenizer(r)
		header [4]string
		title  string
	)
	for i := range header {
		if !tk.scanner.Scan() {
			return nil, &LoadError{Path: name, Line: i + 1,
				Err: fmt.Errorf("%w: expected 4 header lines, found %d", ErrHeader, i)}
		}
		tk.line++
		header[i] = strings.TrimSpace(tk.scanner.Text())
	}
	if !strings.HasPrefix(strings.ToLower(header[0]), "# vtk") {
		return nil, &LoadError{Path: name, Line: 1,
			Err: fmt.Errorf("%w: not a legacy VTK file", ErrHeader)}
	}
	title = header[1]
	if !strings.EqualFold(header[2], "ASCII") {
		return nil, &LoadError{Path: name, Line: 3,
			Err: fmt.Errorf("%w: only ASCII files are supported, got %q", ErrHeader, header[2])}
	}
	if !strings.EqualFold(strings.Join(strings.Fields(header[3]), " "), "DATASET UNSTRUCTURED_GRID") {
		return nil, &LoadError{Path: name, Line: 4,
			Err: fmt.Errorf("%w: expected DATASET UNSTRUCTURED_GRID, got %q", ErrHeader, header[3])}
	}

	points, err := readPoints(tk, dim)
	if err != nil {
		return nil, &LoadError{Path: name, Line: tk.line, Err: err}
	}
	cells, err := readCells(tk, dim, len(points))
	if err != nil {
		return nil, &LoadError{Path: name, Line: tk.line, Err: err}
	}
	if m, err = NewMesh(dim, points, cells); err != nil {
		return nil, err
	}
	m.Title = title
	return
}

func readPoints(tk *tokenizer, dim int) (points [][]float64, err error) {
	var (
		tok string
		np  int
	)
	if tok = tk.next(); tok != "POINTS" {
		return nil, fmt.Errorf("%w: expected POINTS, found %q", ErrMissingSection, tok)
	}
	if np, err = tk.nextInt(); err != nil {
		return
	}
	if np < 0 {
		return nil, fmt.Errorf("%w: negative point count %d", ErrBadNumber, np)
	}
	if tok = tk.next(); tok == "" {
		return nil, fmt.Errorf("%w: POINTS data type", ErrTruncated)
	}
	var coords []float64
	for {
		if tok = tk.peek(); tok == "" {
			break
		}
		val, perr := strconv.ParseFloat(tok, 64)
		if perr != nil {
			break
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("%w: non-finite coordinate %q", ErrBadNumber, tok)
		}
		tk.next()
		coords = append(coords, val)
	}
	var (
		stride int
		nc     = len(coords)
	)
	switch {
	case nc == np*dim:
		stride = dim
	case dim == 2 && nc == np*3:
		stride = 3
	case tok == "" && nc < np*dim:
		return nil, fmt.Errorf("%w: expected %d points, found %d coordinates", ErrTruncated, np, nc)
	case tok != "CELLS" && tok != "":
		return nil, fmt.Errorf("%w: %q in POINTS section", ErrBadNumber, tok)
	case nc < np*dim:
		return nil, fmt.Errorf("%w: expected %d points, found %d coordinates", ErrTruncated, np, nc)
	default:
		return nil, fmt.Errorf("%w: %d coordinates for %d points of dimension %d",
			ErrBadNumber, nc, np, dim)
	}
	if tok != "CELLS" {
		return nil, fmt.Errorf("%w: expected CELLS, found %q", ErrMissingSection, tok)
	}
	points = make([][]float64, np)
	for i := range points {
		points[i] = coords[i*stride : i*stride+dim]
	}
	return
}

func readCells(tk *tokenizer, dim, np int) (cells [][]int, err error) {
	var (
		tok    string
		nCells int
		nv     = dim + 1
	)
	if tok = tk.next(); tok != "CELLS" {
		return nil, fmt.Errorf("%w: expected CELLS, found %q", ErrMissingSection, tok)
	}
	if nCells, err = tk.nextInt(); err != nil {
		return
	}
	if nCells < 0 {
		return nil, fmt.Errorf("%w: negative cell count %d", ErrBadNumber, nCells)
	}
	var size int
	if size, err = tk.nextInt(); err != nil { // Total size of the cell list
		return
	}
	cells = make([][]int, nCells)
	for k := range cells {
		var count int
		if count, err = tk.nextInt(); err != nil {
			return nil, fmt.Errorf("cell %d: %w", k, err)
		}
		if count != nv {
			return nil, fmt.Errorf("%w: cell %d has %d vertices, want %d",
				ErrBadVertexCount, k, count, nv)
		}
		cells[k] = make([]int, nv)
		for j := range cells[k] {
			var v int
			if v, err = tk.nextInt(); err != nil {
				return nil, fmt.Errorf("cell %d: %w", k, err)
			}
			if v < 0 || v >= np {
				return nil, fmt.Errorf("%w: cell %d references vertex %d of %d",
					ErrIndexOutOfRange, k, v, np)
			}
			cells[k][j] = v
		}
	}
	if size != nCells*(nv+1) {
		return nil, fmt.Errorf("%w: CELLS size %d, the %d records hold %d values",
			ErrSizeMismatch, size, nCells, nCells*(nv+1))
	}
	return
}

// tokenizer hands out whitespace separated tokens across lines, tracking
// the current line for error messages.
type tokenizer struct {
	scanner *bufio.Scanner
	fields  []string
	line    int
	peeked  string
	hasPeek bool
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &tokenizer{scanner: sc}
}

// next returns "" at end of input
func (tk *tokenizer) next() string {
	if tk.hasPeek {
		tk.hasPeek = false
		return tk.peeked
	}
	return tk.read()
}

// peek returns the next token without consuming it
func (tk *tokenizer) peek() string {
	if !tk.hasPeek {
		tk.peeked, tk.hasPeek = tk.read(), true
	}
	return tk.peeked
}

func (tk *tokenizer) read() (tok string) {
	for len(tk.fields) == 0 {
		if !tk.scanner.Scan() {
			return ""
		}
		tk.line++
		tk.fields = strings.Fields(tk.scanner.Text())
	}
	tok, tk.fields = tk.fields[0], tk.fields[1:]
	return
}

func (tk *tokenizer) nextInt() (int, error) {
	tok := tk.next()
	if tok == "" {
		return 0, ErrTruncated
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, tok)
	}
	return v, nil
}
