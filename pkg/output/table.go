// Package output renders generation results and pool listings as text
// tables, JSON or YAML.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TableWriter collects rows and prints them as aligned columns under an
// upper-case header and a dashed rule. Cell width is measured in runes, so
// pools of accented letters line up with ASCII ones.
type TableWriter struct {
	out     io.Writer
	headers []string
	rows    [][]string
}

func NewTableTo(w io.Writer) *TableWriter {
	return &TableWriter{out: w}
}

func (t *TableWriter) WithHeaders(headers ...string) *TableWriter {
	t.headers = headers
	return t
}

// AddRow appends one row. Missing trailing cells render empty.
func (t *TableWriter) AddRow(values ...string) *TableWriter {
	t.rows = append(t.rows, values)
	return t
}

func (t *TableWriter) Render() error {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)

	line := func(cells []string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if len(t.headers) > 0 {
		line(t.headers)
		dashes := make([]string, len(t.headers))
		for i, h := range t.headers {
			dashes[i] = strings.Repeat("-", len([]rune(h)))
		}
		line(dashes)
	}
	for _, row := range t.rows {
		line(row)
	}
	return tw.Flush()
}
