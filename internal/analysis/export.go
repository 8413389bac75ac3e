package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/crocstat-cli/internal/dataset"
	"github.com/KaramelBytes/crocstat-cli/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of an exported Document.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the canonical names plus "md", "yml" and "txt".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use text|markdown|yaml|json)", s)
}

// Document bundles a set of reports produced in one run.
type Document struct {
	RunID       string    `yaml:"run_id" json:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
	Dataset     string    `yaml:"dataset" json:"dataset"`
	Rows        int       `yaml:"rows" json:"rows"`
	Reports     []*Report `yaml:"reports" json:"reports"`
}

// NewDocument stamps reports with a fresh run id and the current time.
func NewDocument(t *dataset.Table, reports []*Report) *Document {
	return &Document{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Dataset:     t.Name(),
		Rows:        t.Len(),
		Reports:     reports,
	}
}

// Encode renders the document in the given format.
func (d *Document) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(d.Text()), nil
	case FormatMarkdown:
		return []byte(d.Markdown()), nil
	case FormatYAML:
		b, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatJSON:
		return utils.PrettyJSON(d)
	}
	return nil, fmt.Errorf("unsupported format: %s", f)
}

// Text concatenates the terminal renderings separated by blank lines.
func (d *Document) Text() string {
	var b strings.Builder
	for i, r := range d.Reports {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.Text())
	}
	return b.String()
}

// Markdown renders a standalone markdown document.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString("# Relatório do dataset de crocodilos\n\n")
	fmt.Fprintf(&b, "- **Arquivo:** %s\n", d.Dataset)
	fmt.Fprintf(&b, "- **Observações:** %d\n", d.Rows)
	fmt.Fprintf(&b, "- **Gerado em:** %s\n", d.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Execução:** %s\n\n", d.RunID)
	for _, r := range d.Reports {
		b.WriteString(r.Markdown())
	}
	return b.String()
}
