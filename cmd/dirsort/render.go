package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"dirsort/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// reporter prints run progress and results for people
type reporter struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

func newReporter(out io.Writer, colorMode string) *reporter {
	color := false
	switch colorMode {
	case "always":
		color = true
	case "auto":
		color = shouldColorize(out)
	}

	renderer := lipgloss.NewRenderer(out)
	if color {
		renderer.SetColorProfile(termenv.TrueColor)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &reporter{
		out:     out,
		success: renderer.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("#D08770")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		info:    renderer.NewStyle().Foreground(lipgloss.Color("#81A1C1")),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("#959595")),
		header: renderer.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")),
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *reporter) start(target string, dryRun bool) {
	line := fmt.Sprintf("🚀 Organizing %s", target)
	if dryRun {
		line += " (dry run, nothing will be moved)"
	}
	fmt.Fprintln(r.out, r.header.Render(line))
}

// outcome prints the progress line for one entry
func (r *reporter) outcome(o types.Outcome) {
	if o.CreatedFolder {
		verb := "Created"
		if o.Kind == types.Planned {
			verb = "Would create"
		}
		fmt.Fprintln(r.out, r.info.Render(fmt.Sprintf("📁 %s category folder: %s", verb, o.Category)))
	}

	switch o.Kind {
	case types.Moved:
		fmt.Fprintln(r.out, r.success.Render("✅ "+o.Line()))
	case types.Planned:
		fmt.Fprintln(r.out, r.info.Render("📝 "+o.Line()))
	case types.SkippedDirectory:
		fmt.Fprintln(r.out, r.muted.Render("📁 "+o.Line()))
	case types.SkippedExists:
		fmt.Fprintln(r.out, r.warning.Render("⚠️  "+o.Line()))
	case types.Failed:
		fmt.Fprintln(r.out, r.failure.Render("❌ "+o.Line()))
	}
}

// summary prints the per-category table and the closing line
func (r *reporter) summary(result types.Result, categories []types.Category) {
	type tally struct {
		files int
		bytes int64
	}
	byCategory := make(map[string]*tally)
	for _, o := range result.Outcomes {
		if o.Kind != types.Moved && o.Kind != types.Planned {
			continue
		}
		t, ok := byCategory[o.Category]
		if !ok {
			t = &tally{}
			byCategory[o.Category] = t
		}
		t.files++
		t.bytes += o.Size
	}

	if len(byCategory) > 0 {
		var rows [][]string
		for _, c := range categories {
			if t, ok := byCategory[c.Name]; ok {
				rows = append(rows, []string{c.Name, fmt.Sprint(t.files), humanize.Bytes(uint64(t.bytes))})
			}
		}
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, renderTable(
			[]string{"Category", "Files", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
	}

	counts := result.Counts()
	line := result.Summary()
	if counts.MovedBytes > 0 {
		line += fmt.Sprintf(" (%s)", humanize.Bytes(uint64(counts.MovedBytes)))
	}
	fmt.Fprintln(r.out)
	if counts.Failed > 0 {
		fmt.Fprintln(r.out, r.warning.Render("🏁 "+line))
		return
	}
	fmt.Fprintln(r.out, r.success.Render("🎉 File organization complete! "+line))
}

// categories prints the category table
func (r *reporter) categories(categories []types.Category) {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		exts := "(fallback)"
		if !c.IsFallback() {
			exts = strings.Join(c.Extensions, " ")
		}
		rows = append(rows, []string{c.Name, exts})
	}
	fmt.Fprintln(r.out, renderTable([]string{"Category", "Extensions"}, rows, nil))
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
