// Package analysis holds the fixed catalog of descriptive analyses run over
// a loaded observation table. Every analysis is a pure function of the
// table: none mutates it and none depends on another having run.
package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/crocstat-cli/internal/dataset"
)

// ErrUnknownAnalysis is returned by Lookup for selections outside the catalog.
var ErrUnknownAnalysis = errors.New("unknown analysis")

// Options tunes the truncated rankings.
type Options struct {
	TopSpecies   int
	TopRegions   int
	TopSpecimens int
}

// DefaultOptions returns the catalog's standard limits.
func DefaultOptions() Options {
	return Options{TopSpecies: 10, TopRegions: 15, TopSpecimens: 10}
}

// Analysis is one entry of the catalog.
type Analysis struct {
	Number int
	Key    string
	Title  string
	// Label is the menu caption.
	Label string
	run   func(a Analysis, t *dataset.Table, opt Options) (*Report, error)
}

var catalog = []Analysis{
	{1, "info", "INFORMAÇÕES BÁSICAS DO DATASET", "Informações básicas do dataset", basicInfo},
	{2, "species", "CONTAGEM POR ESPÉCIE", "Contagem por espécie", speciesCount},
	{3, "length", "ESTATÍSTICAS DE COMPRIMENTO", "Estatísticas de comprimento", lengthStats},
	{4, "weight", "ESTATÍSTICAS DE PESO", "Estatísticas de peso", weightStats},
	{5, "habitat", "DISTRIBUIÇÃO POR HABITAT", "Distribuição por habitat", habitatDistribution},
	{6, "conservation", "STATUS DE CONSERVAÇÃO", "Status de conservação", conservationStatus},
	{7, "age", "DISTRIBUIÇÃO POR IDADE", "Análise por classe etária", ageDistribution},
	{8, "sex", "DISTRIBUIÇÃO POR SEXO", "Distribuição por sexo", sexDistribution},
	{9, "region", "OBSERVAÇÕES POR PAÍS/REGIÃO", "Análise por país/região", regionDistribution},
	{10, "largest", "MAIORES ESPÉCIMES (COMPRIMENTO)", "Maiores espécimes (comprimento)", largestSpecimens},
}

// Catalog returns the analyses in menu order.
func Catalog() []Analysis {
	out := make([]Analysis, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a menu number ("3") or key ("length").
func Lookup(sel string) (Analysis, error) {
	s := strings.ToLower(strings.TrimSpace(sel))
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(catalog) {
			return catalog[n-1], nil
		}
		return Analysis{}, fmt.Errorf("%w: %d", ErrUnknownAnalysis, n)
	}
	for _, a := range catalog {
		if a.Key == s {
			return a, nil
		}
	}
	return Analysis{}, fmt.Errorf("%w: %q", ErrUnknownAnalysis, sel)
}

// Run executes the analysis. A panic inside the computation is returned
// as an error so one broken report cannot take down the caller.
func (a Analysis) Run(t *dataset.Table, opt Options) (rep *Report, err error) {
	if a.run == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysis, a.Key)
	}
	if t == nil {
		t = &dataset.Table{}
	}
	defer func() {
		if p := recover(); p != nil {
			rep = nil
			err = fmt.Errorf("%s: panic: %v", a.Key, p)
		}
	}()
	return a.run(a, t, opt)
}

// RunAll runs the whole catalog in order. Failures are recorded on the
// corresponding report instead of aborting the run.
func RunAll(t *dataset.Table, opt Options) []*Report {
	out := make([]*Report, 0, len(catalog))
	for _, a := range catalog {
		rep, err := a.Run(t, opt)
		if err != nil {
			rep = newReport(a)
			rep.Error = err.Error()
		}
		out = append(out, rep)
	}
	return out
}
