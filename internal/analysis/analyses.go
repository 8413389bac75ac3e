package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/crocstat-cli/internal/dataset"
)

func basicInfo(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	r := newReport(a)
	cols := t.Columns()
	r.field("Total de observações", strconv.Itoa(t.Len()), "")
	r.field("Total de colunas", strconv.Itoa(len(cols)), "")
	r.field("Tamanho em memória", fmt.Sprintf("%.2f", float64(t.MemoryUsage())/1024), " KB")
	r.blank()
	r.printf("Colunas disponíveis:")
	g := r.grid("#", "Coluna", "Tipo")
	width := 0
	for i, c := range cols {
		r.printf("  %2d. %s", i+1, c.Name)
		g.add(strconv.Itoa(i+1), c.Name, string(c.Kind))
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	r.blank()
	r.printf("Tipos de dados:")
	for _, c := range cols {
		r.printf("%s  %s", padRight(c.Name, width), c.Kind)
	}
	return r, nil
}

func speciesCount(a Analysis, t *dataset.Table, opt Options) (*Report, error) {
	counts := countValues(t.Texts(dataset.FieldCommonName))
	if len(counts) == 0 {
		return nil, fmt.Errorf("%s: %w", dataset.FieldCommonName, ErrNoData)
	}
	r := newReport(a)
	g := r.grid("#", "Espécie", "Observações")
	for i, c := range head(counts, opt.TopSpecies) {
		r.printf("%2d. %s | %3d observações", i+1, padRight(c.Value, 35), c.Count)
		g.add(strconv.Itoa(i+1), c.Value, strconv.Itoa(c.Count))
	}
	r.blank()
	r.field("Total de espécies únicas", strconv.Itoa(len(counts)), "")
	return r, nil
}

func lengthStats(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	return numericStats(a, t, dataset.FieldLength, "metros")
}

func weightStats(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	return numericStats(a, t, dataset.FieldWeight, "kg")
}

func numericStats(a Analysis, t *dataset.Table, f dataset.Field, unit string) (*Report, error) {
	values, err := t.Numbers(f)
	if err != nil {
		return nil, err
	}
	s, err := Summarize(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f, err)
	}
	r := newReport(a)
	suffix := " " + unit
	r.field("Média", fmtStat(s.Mean), suffix)
	r.field("Mediana", fmtStat(s.Median), suffix)
	if s.HasStd {
		r.field("Desvio padrão", fmtStat(s.Std), suffix)
	} else {
		r.field("Desvio padrão", "n/d", "")
	}
	r.field("Mínimo", fmtStat(s.Min), suffix)
	r.field("Máximo", fmtStat(s.Max), suffix)
	r.field("1º Quartil", fmtStat(s.Q1), suffix)
	r.field("3º Quartil", fmtStat(s.Q3), suffix)
	r.field("Total de medições válidas", strconv.Itoa(s.Count), "")
	return r, nil
}

func fmtStat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// categorical renders a full or truncated distribution. width is the
// label column width; numbered prefixes each line with its rank.
func categorical(a Analysis, t *dataset.Table, f dataset.Field, width, limit int, numbered bool, label string) (*Report, error) {
	dist, err := distribution(t.Texts(f), t.Len())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f, err)
	}
	r := newReport(a)
	g := r.grid("#", label, "Observações", "%")
	for i, c := range head(dist, limit) {
		line := fmt.Sprintf("%s | %3d (%5.1f%%)", padRight(c.Value, width), c.Count, c.Percent)
		if numbered {
			line = fmt.Sprintf("%2d. %s", i+1, line)
		}
		r.Lines = append(r.Lines, line)
		g.add(strconv.Itoa(i+1), c.Value, strconv.Itoa(c.Count), fmt.Sprintf("%.1f", c.Percent))
	}
	return r, nil
}

func habitatDistribution(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	return categorical(a, t, dataset.FieldHabitat, 25, 0, true, "Habitat")
}

func conservationStatus(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	return categorical(a, t, dataset.FieldConservation, 20, 0, false, "Status")
}

func ageDistribution(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	return categorical(a, t, dataset.FieldAgeClass, 15, 0, false, "Classe etária")
}

func sexDistribution(a Analysis, t *dataset.Table, _ Options) (*Report, error) {
	return categorical(a, t, dataset.FieldSex, 10, 0, false, "Sexo")
}

func regionDistribution(a Analysis, t *dataset.Table, opt Options) (*Report, error) {
	return categorical(a, t, dataset.FieldRegion, 25, opt.TopRegions, true, "País/Região")
}

func largestSpecimens(a Analysis, t *dataset.Table, opt Options) (*Report, error) {
	rows := t.Rows()
	measured := rows[:0]
	for _, o := range rows {
		if o.Length.Valid {
			measured = append(measured, o)
		}
	}
	if len(measured) == 0 {
		return nil, fmt.Errorf("%s: %w", dataset.FieldLength, ErrNoData)
	}
	sort.SliceStable(measured, func(i, j int) bool {
		return measured[i].Length.Value > measured[j].Length.Value
	})
	r := newReport(a)
	g := r.grid("#", "Espécie", "Comprimento (m)", "País/Região")
	for i, o := range head(measured, opt.TopSpecimens) {
		r.printf("%2d. %s | %5.2fm | %s", i+1, padRight(o.CommonName, 30), o.Length.Value, o.Region)
		g.add(strconv.Itoa(i+1), o.CommonName, fmtStat(o.Length.Value), o.Region)
	}
	return r, nil
}
