package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if t != nil {
			f.translate = t
		}
	}
}

// WithVersion adds the tool version to the report footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: identity}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Annotation Summary"))

	totals := s.Totals()
	fmt.Fprintf(&b, "## %s\n\n", t("Batch"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Input"), s.Batch.Input)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Variant"), s.Batch.Variant)
	fmt.Fprintf(&b, "| %s | %d / %d |\n", t("Videos"), totals.Videos, s.Batch.Found)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Marks"), formatCount(totals.Marks))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Rejected"), formatCount(totals.Rejected))
	if totals.Snapshots > 0 {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Snapshots"), formatCount(totals.Snapshots))
	}
	fmt.Fprintf(&b, "| %s | %s |\n", t("Duration"), formatDuration(s.Batch.Duration))
	if s.Batch.Stopped {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Stopped"), t("Yes"))
	}
	b.WriteString("\n")

	if len(s.Videos) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Videos"))
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n", t("Video"), t("Status"), t("Frames"), t("Marks"), t("Annotations"), t("Sidecar"))
		b.WriteString("|---|---|---:|---:|---:|---|\n")
		for _, v := range s.Videos {
			name := filepath.Base(v.Name)
			if v.Transcoded {
				name += " *"
			}
			sidecar := "-"
			if v.SidecarSize > 0 {
				sidecar = fmt.Sprintf("%s (%s)", filepath.Base(v.SidecarPath), formatSize(v.SidecarSize))
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %s |\n",
				name, t(v.Status), formatFrames(v.FrameCount), v.Marks, v.Annotations, sidecar)
		}
		b.WriteString("\n")
	}

	var failed []VideoInfo
	for _, v := range s.Videos {
		if v.Error != "" {
			failed = append(failed, v)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Errors"))
		for _, v := range failed {
			fmt.Fprintf(&b, "- `%s`: %s\n", filepath.Base(v.Name), v.Error)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "%s %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05"))
	if f.version != "" {
		fmt.Fprintf(&b, " · vidmark %s", f.version)
	}
	b.WriteString("\n")
	return b.String()
}
