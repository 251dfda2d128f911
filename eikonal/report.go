package eikonal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// PrintResults writes one "id:u" line per node, in id order
func PrintResults(w io.Writer, field []float64) error {
	bw := bufio.NewWriter(w)
	for id, u := range field {
		if _, err := fmt.Fprintf(bw, "%d:%s\n", id, strconv.FormatFloat(u, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
