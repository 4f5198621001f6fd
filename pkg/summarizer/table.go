package summarizer

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter renders a Summary as a terminal table.
type TableFormatter struct {
	translate Translator
}

// NewTableFormatter creates a TableFormatter. A nil translator leaves labels unchanged.
func NewTableFormatter(t Translator) *TableFormatter {
	if t == nil {
		t = identity
	}
	return &TableFormatter{translate: t}
}

// Format implements Formatter.
func (f *TableFormatter) Format(s *Summary) string {
	t := f.translate

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{t("Video"), t("Status"), t("Frames"), t("Marks"), t("Rejected"), t("Sidecar")})
	for _, v := range s.Videos {
		name := filepath.Base(v.Name)
		if v.Transcoded {
			name += " *"
		}
		tbl.AppendRow(table.Row{name, t(v.Status), formatFrames(v.FrameCount), v.Marks, v.Rejected, formatSize(v.SidecarSize)})
	}

	totals := s.Totals()
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d / %d", totals.Videos, s.Batch.Found),
		formatDuration(s.Batch.Duration),
		"",
		totals.Marks,
		totals.Rejected,
		formatSize(totals.SidecarSize),
	})
	return tbl.Render() + "\n"
}
