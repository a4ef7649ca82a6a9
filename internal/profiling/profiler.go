// Package profiling computes per-column descriptive summaries of an
// observation table before any model is fitted.
package profiling

import (
	"context"
	"math"

	"statfit/domain/table"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// ColumnProfile summarizes one column of an observation table
type ColumnProfile struct {
	Name        string
	Kind        table.ColumnKind
	SampleSize  int
	MissingRate float64
	Cardinality int

	// Numeric-only summary; zero-valued for categorical columns
	Mean         float64
	StdDev       float64
	Min          float64
	Max          float64
	Median       float64
	Q25          float64
	Q75          float64
	ZeroVariance bool
}

// Profiler computes column summaries concurrently across columns
type Profiler struct{}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{}
}

// ProfileTable profiles every column of the table. Columns are analyzed in
// parallel; results come back in table column order.
func (p *Profiler) ProfileTable(ctx context.Context, t *table.Table) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, len(t.Columns))

	g, _ := errgroup.WithContext(ctx)
	for i, col := range t.Columns {
		i, col := i, col
		g.Go(func() error {
			profile, err := p.profileColumn(col)
			if err != nil {
				return err
			}
			profiles[i] = profile
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (p *Profiler) profileColumn(col table.Column) (ColumnProfile, error) {
	profile := ColumnProfile{
		Name:       col.Name,
		Kind:       col.Kind,
		SampleSize: col.Len(),
	}

	if col.Kind == table.KindCategorical {
		levels := make(map[string]bool)
		missing := 0
		for _, v := range col.Cats {
			if v == "" {
				missing++
				continue
			}
			levels[v] = true
		}
		profile.Cardinality = len(levels)
		profile.MissingRate = rate(missing, col.Len())
		return profile, nil
	}

	valid := make([]float64, 0, len(col.Nums))
	values := make(map[float64]bool)
	missing := 0
	for _, v := range col.Nums {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
			continue
		}
		valid = append(valid, v)
		values[v] = true
	}
	profile.Cardinality = len(values)
	profile.MissingRate = rate(missing, col.Len())
	if len(valid) == 0 {
		profile.ZeroVariance = true
		return profile, nil
	}

	var err error
	if profile.Mean, err = stats.Mean(valid); err != nil {
		return profile, err
	}
	if profile.StdDev, err = stats.StandardDeviation(valid); err != nil {
		return profile, err
	}
	if profile.Min, err = stats.Min(valid); err != nil {
		return profile, err
	}
	if profile.Max, err = stats.Max(valid); err != nil {
		return profile, err
	}
	if profile.Median, err = stats.Median(valid); err != nil {
		return profile, err
	}
	if profile.Q25, err = stats.Percentile(valid, 25); err != nil {
		return profile, err
	}
	if profile.Q75, err = stats.Percentile(valid, 75); err != nil {
		return profile, err
	}
	profile.ZeroVariance = profile.StdDev*profile.StdDev < 1e-10

	return profile, nil
}

func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
