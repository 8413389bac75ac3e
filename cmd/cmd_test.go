package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const sampleCSV = `Observation ID,Common Name,Scientific Name,Family,Genus,Observed Length (m),Observed Weight (kg),Age Class,Sex,Date of Observation,Country/Region,Habitat Type,Conservation Status,Observer Name,Notes
1,Morelet's Crocodile,Crocodylus moreletii,Crocodylidae,Crocodylus,1.9,62,Adult,Male,31-03-2018,Belize,Swamps,Least Concern,Allison Hill,Cause bill scientist nation opportunity.
2,American Crocodile,Crocodylus acutus,Crocodylidae,Crocodylus,4.09,334.5,Adult,Male,28-01-2015,Venezuela,Mangroves,Vulnerable,Brandon Hall,Ago current practice nation determine operation speak according.
3,Orinoco Crocodile,Crocodylus intermedius,Crocodylidae,Crocodylus,1.08,118.2,Juvenile,Unknown,07-12-2010,Venezuela,Flooded Savannas,Critically Endangered,Melissa Peterson,Democratic shake bill here grow gas enough analysis least by two.
4,Morelet's Crocodile,Crocodylus moreletii,Crocodylidae,Crocodylus,2.42,90.4,Adult,Male,01-11-2019,Mexico,Rivers,Least Concern,Edward Fuller,Officer relate animal direction eye bag do.
5,Mugger Crocodile (Marsh Crocodile),Crocodylus palustris,Crocodylidae,Crocodylus,3.75,269.4,Adult,Unknown,15-07-2019,India,Rivers,Vulnerable,Donald Reid,Class great prove reduce raise author play move each.
`

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	t.Setenv("HOME", t.TempDir())
	// Reset sticky persistent flags between invocations
	for _, name := range []string{"data", "delimiter", "decimal", "sheet", "config"} {
		if fl := rootCmd.PersistentFlags().Lookup(name); fl != nil {
			_ = fl.Value.Set("")
			fl.Changed = false
		}
	}
	reportOutput, reportFormat = "", "text"
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String() + errOut.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "crocodile_dataset.csv")
	if err := os.WriteFile(p, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return p
}

func TestListCommand(t *testing.T) {
	out, err := runCmd(t, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{" 1. info", "10. largest", "ESTATÍSTICAS DE PESO"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommand(t *testing.T) {
	data := writeSample(t)
	out, err := runCmd(t, "", "analyze", "3", "species", "--data", data)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	for _, want := range []string{
		"Dataset carregado com sucesso! 5 observações encontradas.",
		"Média: 2.65 metros",
		"Total de espécies únicas: 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	// length was requested first
	if strings.Index(out, "ESTATÍSTICAS DE COMPRIMENTO") > strings.Index(out, "CONTAGEM POR ESPÉCIE") {
		t.Fatalf("reports out of order:\n%s", out)
	}
}

func TestAnalyzeUnknownSelection(t *testing.T) {
	if _, err := runCmd(t, "", "analyze", "11", "--data", writeSample(t)); err == nil {
		t.Fatalf("expected error for unknown analysis")
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	out, err := runCmd(t, "", "analyze", "1", "--data", missing)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(out, "Erro: Arquivo "+missing+" não encontrado!") {
		t.Fatalf("missing diagnostic:\n%s", out)
	}
}

func TestRootRunsMenu(t *testing.T) {
	data := writeSample(t)
	out, err := runCmd(t, "8\n\n0\n", "--data", data)
	if err != nil {
		t.Fatalf("menu: %v\n%s", err, out)
	}
	for _, want := range []string{"DISTRIBUIÇÃO POR SEXO", "Male       |   3 ( 60.0%)", "Até mais!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestReportFormats(t *testing.T) {
	data := writeSample(t)
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "out", "report.md")
	if out, err := runCmd(t, "", "report", "--format", "md", "-o", mdPath, "--data", data); err != nil {
		t.Fatalf("report md: %v\n%s", err, out)
	}
	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read md: %v", err)
	}
	if !strings.Contains(string(md), "# Relatório do dataset de crocodilos") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}

	out, err := runCmd(t, "", "report", "--format", "json", "--data", data)
	if err != nil {
		t.Fatalf("report json: %v", err)
	}
	js := out[strings.Index(out, "{"):]
	var doc struct {
		Rows    int `json:"rows"`
		Reports []struct {
			Key string `json:"key"`
		} `json:"reports"`
	}
	if err := json.Unmarshal([]byte(js), &doc); err != nil {
		t.Fatalf("decode json: %v\n%s", err, js)
	}
	if doc.Rows != 5 || len(doc.Reports) != 10 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	yPath := filepath.Join(dir, "report.yaml")
	if _, err := runCmd(t, "", "report", "--format", "yaml", "-o", yPath, "--data", data); err != nil {
		t.Fatalf("report yaml: %v", err)
	}
	yb, _ := os.ReadFile(yPath)
	var y map[string]any
	if err := yaml.Unmarshal(yb, &y); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if y["dataset"] == nil || y["run_id"] == nil {
		t.Fatalf("yaml missing metadata: %v", y)
	}
}

func TestReportRejectsFormat(t *testing.T) {
	if _, err := runCmd(t, "", "report", "--format", "pdf", "--data", writeSample(t)); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if _, err := runCmd(t, "", "config", "set", "sheet", "Obs", "--config", p); err != nil {
		t.Fatalf("config set should create a new file: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if _, err := runCmd(t, "", "config", "set", "top_regions", "4", "--config", p); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := runCmd(t, "", "config", "set", "delimiter", "#", "--config", p); err == nil {
		t.Fatalf("expected invalid delimiter to be rejected")
	}
	out, err := runCmd(t, "", "config", "show", "--config", p)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "top_regions: 4") || !strings.Contains(out, "sheet: Obs") {
		t.Fatalf("unexpected config:\n%s", out)
	}
}

func TestDataFlagWithAbsentConfigFile(t *testing.T) {
	data := writeSample(t)
	absent := filepath.Join(t.TempDir(), "missing.yaml")
	out, err := runCmd(t, "", "analyze", "1", "--config", absent, "--data", data)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dataset carregado com sucesso! 5 observações encontradas.") {
		t.Fatalf("--data was not honoured:\n%s", out)
	}
}

func TestDataFlagWithMalformedConfigFile(t *testing.T) {
	data := writeSample(t)
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("top_regions: [1, 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCmd(t, "", "analyze", "1", "--config", bad, "--data", data)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	if !strings.Contains(out, "5 observações encontradas.") {
		t.Fatalf("--data was not honoured:\n%s", out)
	}
}

func TestNotifySimulatesWithoutPassword(t *testing.T) {
	t.Setenv("PIPELINE_EMAIL_RECIPIENT", "team@example.com")
	t.Setenv("PIPELINE_EMAIL_PASSWORD", "")
	notifyEnvFile = filepath.Join(t.TempDir(), "absent.env")
	defer func() { notifyEnvFile = ".env" }()
	out, err := runCmd(t, "", "notify", "success")
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(out, "Assunto: [SUCCESS] Pipeline CI/CD") {
		t.Fatalf("missing simulation:\n%s", out)
	}
}

// TestExitStatusOnLoadFailure re-executes the test binary to observe the
// process exit code.
func TestExitStatusOnLoadFailure(t *testing.T) {
	if os.Getenv("CROCSTAT_EXIT_HELPER") == "1" {
		rootCmd.SetArgs([]string{"--data", os.Getenv("CROCSTAT_EXIT_DATA")})
		Execute()
		return
	}
	missing := filepath.Join(t.TempDir(), "missing.csv")
	c := exec.Command(os.Args[0], "-test.run=^TestExitStatusOnLoadFailure$")
	c.Env = append(os.Environ(), "CROCSTAT_EXIT_HELPER=1", "CROCSTAT_EXIT_DATA="+missing, "HOME="+t.TempDir())
	out, err := c.CombinedOutput()
	ee, ok := err.(*exec.ExitError)
	if !ok || ee.ExitCode() != 1 {
		t.Fatalf("expected exit status 1, got %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "não encontrado!") {
		t.Fatalf("missing diagnostic:\n%s", out)
	}
}
