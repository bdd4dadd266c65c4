/*
Package cooldown computes per-(partner, make, model) cooldown status.

PURPOSE:
  A partner who recently received a loan of a given model (or, when model
  is unknown on the historical row, a given make) is blocked from a new
  pairing until the cooldown window elapses. Grains with no history at all
  are absent from the result; downstream components must treat a missing
  grain as cooldown_ok = true (see Result.OK).

SEE ALSO:
  - spec.md §4.2
  - timeoff/ledger.go (teacher): per-grain day-uniqueness + lookback this
    package's two-level (model, then make) fallback lookup is grounded on.
*/
package cooldown

import (
	"github.com/aininja-pro/media-scheduler/domain"
)

// Row is one (person, make, model?, cooldown_ok, cooldown_until) result.
type Row struct {
	PersonID       domain.PersonID
	Make           string
	Model          *string // nil => this row is a make-grain fallback record
	CooldownOK     bool
	CooldownUntil  domain.Date
}

// modelKey identifies a (partner, make, model) grain; Model == "" means
// "no model known on this historical row" and is tracked separately from
// a real model grain, per §4.2's "when model is unknown... block applies
// at make granularity for that row" rule.
type modelKey struct {
	Person domain.PersonID
	Make   string
	Model  string
}

type makeKey struct {
	Person domain.PersonID
	Make   string
}

// Result holds both the model-grain and make-grain cooldown horizons so
// Candidate Join can apply the documented fallback precedence.
type Result struct {
	byModel map[modelKey]domain.Date
	byMake  map[makeKey]domain.Date
}

// Compute evaluates every historical loan's cooldown window and folds it
// into the latest (furthest-out) CooldownUntil per grain — a partner with
// two prior Camry loans is blocked until the later of the two windows.
//
// eligibility supplies the (person, make) -> rank lookup §4.2 needs to
// resolve the rule-matched cooldown; a loan for a partner with no
// eligibility row on that make falls straight to defaultDays.
func Compute(history []domain.LoanHistory, rules []domain.Rule, eligibility []domain.Eligibility, defaultDays int) Result {
	cooldownByMakeRank := make(map[string]int, len(rules))
	for _, r := range rules {
		if r.CooldownPeriodDays != nil {
			cooldownByMakeRank[r.Make+"|"+string(r.Rank)] = *r.CooldownPeriodDays
		}
	}
	rankByPersonMake := make(map[string]domain.Rank, len(eligibility))
	for _, e := range eligibility {
		rankByPersonMake[string(e.PersonID)+"|"+e.Make] = e.Rank
	}

	res := Result{byModel: make(map[modelKey]domain.Date), byMake: make(map[makeKey]domain.Date)}

	for _, h := range history {
		days := defaultDays
		if rank, ok := rankByPersonMake[string(h.PersonID)+"|"+h.Make]; ok {
			if d, ok := cooldownByMakeRank[h.Make+"|"+string(rank)]; ok {
				days = d
			}
		}
		until := h.EndDate.AddDays(days)

		if h.Model != nil && *h.Model != "" {
			k := modelKey{Person: h.PersonID, Make: h.Make, Model: *h.Model}
			if cur, ok := res.byModel[k]; !ok || until.After(cur) {
				res.byModel[k] = until
			}
		} else {
			k := makeKey{Person: h.PersonID, Make: h.Make}
			if cur, ok := res.byMake[k]; !ok || until.After(cur) {
				res.byMake[k] = until
			}
		}
	}
	return res
}

// OK reports whether (person, make, model) is out of cooldown as of
// weekStart, applying the (person, make, model) -> (person, make)
// fallback precedence from §4.2. A grain with no history at all defaults
// to true, never raised as an error.
func (r Result) OK(person domain.PersonID, make_, model string, weekStart domain.Date) (ok bool, until domain.Date) {
	if model != "" {
		if u, found := r.byModel[modelKey{Person: person, Make: make_, Model: model}]; found {
			return weekStart.AfterOrEqual(u), u
		}
	}
	if u, found := r.byMake[makeKey{Person: person, Make: make_}]; found {
		return weekStart.AfterOrEqual(u), u
	}
	return true, domain.Date{}
}

// Rows flattens the result into the spec's documented row shape, one row
// per observed grain.
func (r Result) Rows(weekStart domain.Date) []Row {
	var out []Row
	for k, until := range r.byModel {
		model := k.Model
		out = append(out, Row{
			PersonID: k.Person, Make: k.Make, Model: &model,
			CooldownOK: weekStart.AfterOrEqual(until), CooldownUntil: until,
		})
	}
	for k, until := range r.byMake {
		out = append(out, Row{
			PersonID: k.Person, Make: k.Make, Model: nil,
			CooldownOK: weekStart.AfterOrEqual(until), CooldownUntil: until,
		})
	}
	return out
}
