package mesh

import (
	"errors"
	"fmt"
)

var (
	ErrHeader            = errors.New("malformed header")
	ErrMissingSection    = errors.New("missing section")
	ErrTruncated         = errors.New("truncated input")
	ErrIndexOutOfRange   = errors.New("vertex index out of range")
	ErrBadVertexCount    = errors.New("wrong number of vertices in cell")
	ErrBadNumber         = errors.New("unparsable number")
	ErrSizeMismatch      = errors.New("section size does not match its records")
	ErrUnsupportedDim    = errors.New("unsupported dimension")
	ErrDegenerateElement = errors.New("element does not have dim+1 distinct vertices")
	ErrUnknownNode       = errors.New("element references an unknown node")
	ErrBadSource         = errors.New("source index out of range")
)

// LoadError is returned by the mesh readers. Line is 1-based, zero when the
// failure is not tied to a line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// BuildError reports a mesh that cannot be assembled from its points and
// cells. Element is -1 when the failure is not tied to one element.
type BuildError struct {
	Element int
	Err     error
}

func (e *BuildError) Error() string {
	if e.Element >= 0 {
		return fmt.Sprintf("build mesh: element %d: %v", e.Element, e.Err)
	}
	return fmt.Sprintf("build mesh: %v", e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
