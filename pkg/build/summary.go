package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
)

// SummaryFileName is the report written by build --summary.
const SummaryFileName = "BUILD_SUMMARY.md"

// escapeMarkdownTable escapes characters that would break markdown table cells.
func escapeMarkdownTable(s string) string {
	// Escape pipe characters which break table cells
	s = strings.ReplaceAll(s, "|", "\\|")
	// Escape newlines which break table rows
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// escapeMarkdownText escapes characters for general markdown text.
func escapeMarkdownText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}

// SummaryData holds all data for the build summary.
type SummaryData struct {
	RunID     string
	OutputDir string
	Succeeded int
	Failed    int
	Variants  []VariantSummary
}

// VariantSummary is one row of the summary.
type VariantSummary struct {
	Name   string
	Output string
	Bytes  int
	Error  string
	Files  []FileSummary
}

// FileSummary describes a script embedded in a variant.
type FileSummary struct {
	Marker      string
	Source      string
	Destination string
	Size        int
	EncodedSize int
}

// WriteSummary renders the report as markdown to outputPath.
func WriteSummary(ctx context.Context, report *Report, outputPath string) (err error) {
	data := buildSummaryData(report)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}

	// Close the file and remove it on error
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close summary file: %w", cerr)
		}
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	if err = Summary(data).Render(ctx, f); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	return nil
}

// buildSummaryData builds SummaryData from a report.
func buildSummaryData(report *Report) SummaryData {
	variants := make([]VariantSummary, 0, len(report.Results))
	for _, r := range report.Results {
		vs := VariantSummary{
			Name:   escapeMarkdownTable(r.Variant),
			Output: escapeMarkdownTable(filepath.Base(r.Output)),
			Bytes:  r.Bytes,
			Files:  make([]FileSummary, 0, len(r.Files)),
		}
		if r.Err != nil {
			vs.Error = escapeMarkdownText(r.Err.Error())
		}
		for _, f := range r.Files {
			vs.Files = append(vs.Files, FileSummary{
				Marker:      escapeMarkdownTable(f.Marker.String()),
				Source:      escapeMarkdownTable(filepath.Base(f.Source)),
				Destination: escapeMarkdownTable(f.Destination),
				Size:        f.Size,
				EncodedSize: f.EncodedSize,
			})
		}
		variants = append(variants, vs)
	}

	return SummaryData{
		RunID:     report.RunID,
		OutputDir: escapeMarkdownTable(report.OutputDir),
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Variants:  variants,
	}
}

// Summary renders the build summary as markdown.
func Summary(data SummaryData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString("# Build Summary\n\n")
		b.WriteString("| Field | Value |\n|-------|-------|\n")
		fmt.Fprintf(&b, "| Run | `%s` |\n", data.RunID)
		fmt.Fprintf(&b, "| Output directory | `%s` |\n", data.OutputDir)
		fmt.Fprintf(&b, "| Built | %d |\n", data.Succeeded)
		fmt.Fprintf(&b, "| Failed | %d |\n", data.Failed)

		b.WriteString("\n## Variants\n\n")
		if len(data.Variants) == 0 {
			b.WriteString("No variants were built.\n")
		} else {
			b.WriteString("| Variant | Output | Size | Status |\n|---------|--------|------|--------|\n")
			for _, v := range data.Variants {
				status := "ok"
				size := fmt.Sprintf("%d bytes", v.Bytes)
				if v.Error != "" {
					status = "failed"
					size = "-"
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", v.Name, v.Output, size, status)
			}
		}

		for _, v := range data.Variants {
			if len(v.Files) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n\n", v.Name)
			b.WriteString("| Marker | Source | Destination | Compressed | Encoded |\n|--------|--------|-------------|------------|---------|\n")
			for _, f := range v.Files {
				destination := "-"
				if f.Destination != "" {
					destination = "`" + f.Destination + "`"
				}
				fmt.Fprintf(&b, "| `%s` | %s | %s | %d | %d |\n", f.Marker, f.Source, destination, f.Size, f.EncodedSize)
			}
		}

		var failures []VariantSummary
		for _, v := range data.Variants {
			if v.Error != "" {
				failures = append(failures, v)
			}
		}
		if len(failures) > 0 {
			b.WriteString("\n## Failures\n\n")
			for _, v := range failures {
				fmt.Fprintf(&b, "- **%s**: %s\n", v.Name, v.Error)
			}
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}
