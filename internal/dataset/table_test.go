package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Observation ID,Common Name,Scientific Name,Family,Genus,Observed Length (m),Observed Weight (kg),Age Class,Sex,Date of Observation,Country/Region,Habitat Type,Conservation Status,Observer Name,Notes
1,Morelet's Crocodile,Crocodylus moreletii,Crocodylidae,Crocodylus,1.9,62,Adult,Male,31-03-2018,Belize,Swamps,Least Concern,Allison Hill,Test observation 1
2,American Crocodile,Crocodylus acutus,Crocodylidae,Crocodylus,4.09,334.5,Adult,Male,28-01-2015,Venezuela,Mangroves,Vulnerable,Brandon Hall,Test observation 2
3,Orinoco Crocodile,Crocodylus intermedius,Crocodylidae,Crocodylus,1.08,118.2,Juvenile,Unknown,07-12-2010,Venezuela,Flooded Savannas,Critically Endangered,Melissa Peterson,Test observation 3
4,Morelet's Crocodile,Crocodylus moreletii,Crocodylidae,Crocodylus,2.42,90.4,Adult,Male,01-11-2019,Mexico,Rivers,Least Concern,Edward Fuller,Test observation 4
5,Mugger Crocodile,Crocodylus palustris,Crocodylidae,Crocodylus,3.75,269.4,Adult,Unknown,15-07-2019,India,Rivers,Vulnerable,Donald Reid,Test observation 5`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "crocodiles.csv", sampleCSV)
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 5 {
		t.Fatalf("rows: got %d want 5", tbl.Len())
	}
	if got := len(tbl.Columns()); got != 15 {
		t.Fatalf("columns: got %d want 15", got)
	}
	if tbl.Name() != "crocodiles.csv" {
		t.Fatalf("name: %q", tbl.Name())
	}
	o := tbl.Row(1)
	if o.CommonName != "American Crocodile" || o.Region != "Venezuela" {
		t.Fatalf("unexpected row: %+v", o)
	}
	if !o.Length.Valid || o.Length.Value != 4.09 {
		t.Fatalf("length: %+v", o.Length)
	}
	want := time.Date(2015, time.January, 28, 0, 0, 0, 0, time.UTC)
	if !o.ObservedOn.Equal(want) {
		t.Fatalf("date: got %v want %v", o.ObservedOn, want)
	}
	if tbl.MemoryUsage() <= 0 {
		t.Fatalf("expected positive memory usage")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "arquivo_inexistente.csv"), LoadOptions{})
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLoadSchemaMismatch(t *testing.T) {
	p := writeFile(t, "partial.csv", "Observation ID,Common Name\n1,Nile Crocodile\n")
	_, err := Load(p, LoadOptions{})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "Observed Length (m)") {
		t.Fatalf("error should list missing columns: %v", err)
	}
}

func TestLoadRejectsNonNumericLength(t *testing.T) {
	content := strings.Replace(sampleCSV, ",4.09,", ",long,", 1)
	p := writeFile(t, "bad.csv", content)
	_, err := Load(p, LoadOptions{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 3 || pe.Column != "Observed Length (m)" || pe.Value != "long" {
		t.Fatalf("unexpected parse error: %+v", pe)
	}
}

func TestLoadRejectsInfiniteLength(t *testing.T) {
	for _, v := range []string{"inf", "-Infinity", "+Inf"} {
		content := strings.Replace(sampleCSV, ",4.09,", ","+v+",", 1)
		_, err := Load(writeFile(t, "inf.csv", content), LoadOptions{})
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: expected ParseError, got %v", v, err)
		}
		if !errors.Is(err, errNotFinite) || pe.Line != 3 {
			t.Fatalf("%s: unexpected parse error: %+v", v, pe)
		}
	}
}

func TestParseErrorLineAfterMultilineField(t *testing.T) {
	lines := strings.Split(sampleCSV, "\n")
	// row 1 notes span two physical lines
	lines[1] = lines[1][:strings.LastIndex(lines[1], ",")+1] + "\"first\nsecond\""
	lines[2] = strings.Replace(lines[2], ",4.09,", ",long,", 1)
	_, err := Load(writeFile(t, "multi.csv", strings.Join(lines, "\n")), LoadOptions{})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 4 {
		t.Fatalf("expected physical line 4, got %d", pe.Line)
	}
}

func TestLoadSniffsSemicolonCSV(t *testing.T) {
	lines := strings.Split(sampleCSV, "\n")
	for i := range lines {
		lines[i] = strings.ReplaceAll(lines[i], ",", ";")
	}
	tbl, err := Load(writeFile(t, "semi.csv", strings.Join(lines, "\n")), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 5 || tbl.Row(1).Region != "Venezuela" {
		t.Fatalf("semicolon file not split: len=%d row=%+v", tbl.Len(), tbl.Row(1))
	}
}

func TestLoadMissingValues(t *testing.T) {
	content := strings.Replace(sampleCSV, ",1.08,118.2,", ",,NA,", 1)
	p := writeFile(t, "gaps.csv", content)
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	lengths, err := tbl.Numbers(FieldLength)
	if err != nil {
		t.Fatalf("Numbers: %v", err)
	}
	if len(lengths) != 4 {
		t.Fatalf("expected 4 valid lengths, got %v", lengths)
	}
	if o := tbl.Row(2); o.Weight.Valid {
		t.Fatalf("NA weight should be missing: %+v", o.Weight)
	}
	if _, err := tbl.Numbers(FieldSex); err == nil {
		t.Fatalf("expected error for non-numeric column")
	}
}

func TestLoadSemicolonDecimalComma(t *testing.T) {
	lines := strings.Split(sampleCSV, "\n")
	header := strings.ReplaceAll(lines[0], ",", ";")
	row := "9;Nile Crocodile;Crocodylus niloticus;Crocodylidae;Crocodylus;5,2;1.050,5;Adult;Male;2020-05-01;Kenya;Rivers;Least Concern;Ann Lee;big one"
	p := writeFile(t, "nile.csv", header+"\n"+row+"\n")
	tbl, err := Load(p, LoadOptions{Delimiter: ';', DecimalSeparator: ','})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o := tbl.Row(0)
	if o.Length.Value != 5.2 || o.Weight.Value != 1050.5 {
		t.Fatalf("locale numbers: %+v %+v", o.Length, o.Weight)
	}
	if o.ObservedOn.Year() != 2020 {
		t.Fatalf("iso date not parsed: %v", o.ObservedOn)
	}
}

func TestLoadTSVAndReorderedHeader(t *testing.T) {
	lines := strings.Split(sampleCSV, "\n")
	var b strings.Builder
	for _, l := range lines[:3] {
		cells := strings.Split(l, ",")
		// move the first column to the end
		cells = append(cells[1:], cells[0])
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	p := writeFile(t, "crocs.tsv", b.String())
	tbl, err := Load(p, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 || tbl.Row(1).ID != "2" {
		t.Fatalf("unexpected table: len=%d id=%q", tbl.Len(), tbl.Row(1).ID)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	p := writeFile(t, "crocs.json", "{}")
	if _, err := Load(p, LoadOptions{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	tbl := New("mem", []Observation{{CommonName: "Gharial"}})
	rows := tbl.Rows()
	rows[0].CommonName = "changed"
	if tbl.Row(0).CommonName != "Gharial" {
		t.Fatalf("table mutated through Rows()")
	}
}
