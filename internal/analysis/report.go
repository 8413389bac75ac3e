package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

const bannerWidth = 60

// Field is a labelled scalar result of an analysis.
type Field struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Grid is the tabular part of a report.
type Grid struct {
	Headers []string   `yaml:"headers" json:"headers"`
	Rows    [][]string `yaml:"rows" json:"rows"`
}

// Report is the output of one analysis. Lines hold the terminal rendering;
// Fields and Grid carry the same results for machine formats.
type Report struct {
	Number int      `yaml:"number" json:"number"`
	Key    string   `yaml:"key" json:"key"`
	Title  string   `yaml:"title" json:"title"`
	Fields []Field  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Grid   *Grid    `yaml:"table,omitempty" json:"table,omitempty"`
	Error  string   `yaml:"error,omitempty" json:"error,omitempty"`
	Lines  []string `yaml:"-" json:"-"`
}

func newReport(a Analysis) *Report {
	return &Report{Number: a.Number, Key: a.Key, Title: a.Title}
}

func (r *Report) printf(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *Report) blank() { r.Lines = append(r.Lines, "") }

// field records a labelled value and renders it as "Label: value<suffix>".
func (r *Report) field(label, value, suffix string) {
	r.Fields = append(r.Fields, Field{Label: label, Value: value})
	r.Lines = append(r.Lines, label+": "+value+suffix)
}

func (r *Report) grid(headers ...string) *Grid {
	r.Grid = &Grid{Headers: headers}
	return r.Grid
}

func (g *Grid) add(cells ...string) { g.Rows = append(g.Rows, cells) }

// Text renders the report the way the terminal shows it: banner, title,
// banner, then one result per line.
func (r *Report) Text() string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)
	b.WriteString(banner + "\n")
	b.WriteString(r.Title + "\n")
	b.WriteString(banner + "\n")
	for _, l := range r.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if r.Error != "" {
		b.WriteString("Erro: " + r.Error + "\n")
	}
	return b.String()
}

// WriteTo writes the text rendering to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Text())
	return int64(n), err
}

// Markdown renders a heading, a bullet list of fields and a pipe table.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %d. %s\n\n", r.Number, r.Title)
	if r.Error != "" {
		fmt.Fprintf(&b, "> Erro: %s\n\n", r.Error)
		return b.String()
	}
	for _, f := range r.Fields {
		fmt.Fprintf(&b, "- **%s:** %s\n", f.Label, mdEscape(f.Value))
	}
	if len(r.Fields) > 0 {
		b.WriteString("\n")
	}
	if r.Grid != nil && len(r.Grid.Rows) > 0 {
		tw := tablewriter.NewWriter(&b)
		tw.SetAutoFormatHeaders(false)
		tw.SetHeader(r.Grid.Headers)
		tw.SetAutoWrapText(false)
		tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
		tw.SetCenterSeparator("|")
		for _, row := range r.Grid.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = mdEscape(c)
			}
			tw.Append(cells)
		}
		tw.Render()
		b.WriteString("\n")
	}
	return b.String()
}

func mdEscape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}

// padRight left-aligns s in a cell of the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
