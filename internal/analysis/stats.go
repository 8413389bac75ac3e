package analysis

import (
	"errors"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// ErrNoData is returned when an analysis has nothing to compute over:
// an empty table, or a column whose values are all missing.
var ErrNoData = errors.New("no data")

// Summary holds descriptive statistics over one numeric column.
type Summary struct {
	Count  int     `yaml:"count" json:"count"`
	Mean   float64 `yaml:"mean" json:"mean"`
	Median float64 `yaml:"median" json:"median"`
	// Std is the sample standard deviation; valid only when HasStd.
	Std    float64 `yaml:"std" json:"std"`
	HasStd bool    `yaml:"has_std" json:"has_std"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Q1     float64 `yaml:"q1" json:"q1"`
	Q3     float64 `yaml:"q3" json:"q3"`
}

// Summarize computes a Summary. NaN and infinite values are treated as missing.
func Summarize(values []float64) (Summary, error) {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return Summary{}, ErrNoData
	}
	s := Summary{Count: len(data)}
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, err
	}
	if len(data) > 1 {
		if s.Std, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, err
		}
		s.HasStd = true
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Q3 = quantile(sorted, 0.75)
	return s, nil
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
