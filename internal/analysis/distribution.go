package analysis

import "sort"

// CategoryCount is one value of a categorical column with its frequency.
type CategoryCount struct {
	Value   string  `yaml:"value" json:"value"`
	Count   int     `yaml:"count" json:"count"`
	Percent float64 `yaml:"percent" json:"percent"`
}

// countValues tallies non-empty values, most frequent first. Equal counts
// keep the order in which values were first seen.
func countValues(values []string) []CategoryCount {
	pos := map[string]int{}
	var out []CategoryCount
	for _, v := range values {
		if v == "" {
			continue
		}
		if i, ok := pos[v]; ok {
			out[i].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, CategoryCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// distribution is countValues with percentages over total rows.
func distribution(values []string, total int) ([]CategoryCount, error) {
	counts := countValues(values)
	if len(counts) == 0 || total == 0 {
		return nil, ErrNoData
	}
	for i := range counts {
		counts[i].Percent = float64(counts[i].Count) / float64(total) * 100
	}
	return counts, nil
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
