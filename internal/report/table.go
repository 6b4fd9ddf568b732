package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table formats columnar output using tabwriter.
type Table struct {
	w             *tabwriter.Writer
	headers       []string
	headerWritten bool
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:       tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// AddRow appends a data row. Missing values are filled with empty strings.
func (t *Table) AddRow(values ...string) {
	if !t.headerWritten {
		t.headerWritten = true
		t.writeLine(t.headers)
		separator := make([]string, len(t.headers))
		for i, h := range t.headers {
			separator[i] = strings.Repeat("-", len(h))
		}
		t.writeLine(separator)
	}

	cells := make([]string, len(t.headers))
	copy(cells, values)
	t.writeLine(cells)
}

// Render flushes the underlying tabwriter. Must be called after all AddRow calls.
func (t *Table) Render() error {
	return t.w.Flush()
}

func (t *Table) writeLine(cells []string) {
	//nolint:errcheck // errors surface on Flush
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}
