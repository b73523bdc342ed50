package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows under header. Text mode draws a box table, markdown mode
// a pipe table, and JSON or YAML a list of objects keyed by header.
func (r *Renderer) Table(header []string, rows [][]string) error {
	switch r.EffectiveMode() {
	case ModeJSON, ModeYAML:
		records := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			rec := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(row) {
					rec[col] = row[i]
				}
			}
			records = append(records, rec)
		}
		_, err := r.Data(records)
		return err
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return nil
	}
	r.Println(t.Render())
	r.Muted(fmt.Sprintf("(%d rows)", len(rows)))
	return nil
}
