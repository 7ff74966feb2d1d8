package core

import "github.com/huangsam/bfskpi/schema"

// Ratios computes, for one window index and one variable, each
// repository's value relative to the cross-repository average for that
// same (window index, variable) pair.
//
// A repository with no aggregate at windowIndex is excluded from both the
// averaging set and the result. The average includes the repository being
// scored (no leave-one-out). A non-positive group average yields explicit
// 0.0 ratios rather than an error.
func Ratios(aggregates map[string][]*schema.AggregateRecord, windowIndex int, variable string) map[string]float64 {
	values := make(map[string]float64)
	var sum float64
	for repo, records := range aggregates {
		rec := recordAt(records, windowIndex)
		if rec == nil {
			continue
		}
		v := rec.Value(variable)
		values[repo] = v
		sum += v
	}
	if len(values) == 0 {
		return values
	}

	avg := sum / float64(len(values))
	ratios := make(map[string]float64, len(values))
	for repo, v := range values {
		if avg > 0 {
			ratios[repo] = v / avg
		} else {
			ratios[repo] = 0.0
		}
	}
	return ratios
}

// GroupAverages returns the peer-group average of a variable for each
// window index from 1 to maxIndex, in index order. The repository named
// by exclude is left out of the averaging set, so passing the scaling
// repository yields the average of everyone it is contrasted against.
// An empty exclude averages over all repositories. Indexes where no
// participating repository has data produce 0.0.
func GroupAverages(aggregates map[string][]*schema.AggregateRecord, maxIndex int, variable, exclude string) []float64 {
	out := make([]float64, 0, maxIndex)
	for idx := 1; idx <= maxIndex; idx++ {
		var sum float64
		var n int
		for repo, records := range aggregates {
			if repo == exclude {
				continue
			}
			rec := recordAt(records, idx)
			if rec == nil {
				continue
			}
			sum += rec.Value(variable)
			n++
		}
		if n == 0 {
			out = append(out, 0.0)
			continue
		}
		out = append(out, sum/float64(n))
	}
	return out
}

// recordAt finds the aggregate with the given 1-based window index.
func recordAt(records []*schema.AggregateRecord, windowIndex int) *schema.AggregateRecord {
	for _, rec := range records {
		if rec.Window.Index == windowIndex {
			return rec
		}
	}
	return nil
}
