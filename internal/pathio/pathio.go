// Package pathio reads and writes parameter paths as plain text.
//
// Each line holds two whitespace separated columns: the intercept b
// followed by the slope a. Extra columns are ignored.
package pathio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/losscape/internal/field"
)

var ErrCommaSeparated = errors.New("pathio: columns must be separated by whitespace (b a), not commas")

// Parse reads a path. Blank lines, lines with fewer than two columns and
// rows whose first two columns are not finite numbers are skipped, so the
// result may be empty.
func Parse(r io.Reader) ([]field.Param, error) {
	var path []field.Param
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if strings.Contains(text, ",") {
			return nil, fmt.Errorf("line %d: %w", line, ErrCommaSeparated)
		}
		parts := strings.Fields(text)
		if len(parts) < 2 {
			continue
		}
		b, ok := finite(parts[0])
		if !ok {
			continue
		}
		a, ok := finite(parts[1])
		if !ok {
			continue
		}
		path = append(path, field.Param{U: a, V: b})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read path: %w", err)
	}
	return path, nil
}

func finite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Format writes path in the layout Parse reads.
func Format(w io.Writer, path []field.Param) error {
	bw := bufio.NewWriter(w)
	for _, p := range path {
		if _, err := fmt.Fprintf(bw, "%g %g\n", p.V, p.U); err != nil {
			return err
		}
	}
	return bw.Flush()
}
