/*
Package assign implements the Greedy Assigner: a constrained, score-ordered
selector that commits candidates to concrete start days while respecting
office capacity, annual tier caps, and per-partner/week limits.

FAILURE SEMANTICS:
  No exceptions escape Run. A candidate that can't be placed is silently
  skipped (its SkipReason is recorded for observability, not as an error).
  A run with zero admissible candidates returns an empty, non-error result.

SEE ALSO:
  - spec.md §4.8
  - generic/ledger.go + timeoff/request.go (teacher): commit-time
    constraint checks this package's per-candidate gate is grounded on.
*/
package assign

import (
	"github.com/aininja-pro/media-scheduler/availability"
	"github.com/aininja-pro/media-scheduler/capacity"
	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/scoring"
)

// SkipReason records why a scored candidate did not become an assignment.
// Purely observational — it changes no admission decision.
type SkipReason string

const (
	SkipVINUsed           SkipReason = "vin_already_used"
	SkipPartnerWeekLimit  SkipReason = "partner_week_limit"
	SkipTierCap           SkipReason = "tier_cap_exhausted"
	SkipNoFeasibleStartDay SkipReason = "no_feasible_start_day"
)

// Options configures the admission checks; EnableTierCaps and
// EnableCapacity are §6 diagnostics toggles. The EnableCooldown toggle has
// no field here: cooldown is applied upstream in Candidate Join, and
// pipeline.Run hands it an empty cooldown result when the toggle is off.
type Options struct {
	MaxPerPartnerPerWeek int
	LoanLengthDays       int
	EnableTierCaps       bool
	EnableCapacity       bool
}

// Result is the outcome of one Run: the committed assignments plus a tally
// of why every non-committed candidate was skipped.
type Result struct {
	Assignments []domain.Assignment
	SkippedBy   map[SkipReason]int
}

// Run iterates scored candidates in the §4.5 total order and greedily
// commits every one that clears all live constraints.
//
// capRemaining is keyed by "person|make" and holds cap - loans_12m before
// the run starts; Run decrements it in place as it commits. Passing it in
// (rather than recomputing internally) keeps this package free of any
// knowledge of how caps are resolved (tiercap's concern).
func Run(scored []domain.Candidate, grid availability.Grid, opsCapacity *capacity.Ledger, capRemaining map[string]int, opts Options) Result {
	ordered := make([]domain.Candidate, len(scored))
	copy(ordered, scored)
	scoring.Sort(ordered)

	days := grid.Days()

	res := Result{SkippedBy: make(map[SkipReason]int)}
	vinUsed := make(map[domain.VIN]bool)
	partnerWeekCount := make(map[domain.PersonID]int)

	maxPerPartner := opts.MaxPerPartnerPerWeek
	if maxPerPartner <= 0 {
		maxPerPartner = 1
	}
	loanLength := opts.LoanLengthDays
	if loanLength <= 0 {
		loanLength = 7
	}

	for _, c := range ordered {
		if vinUsed[c.VIN] {
			res.SkippedBy[SkipVINUsed]++
			continue
		}
		if partnerWeekCount[c.PersonID] >= maxPerPartner {
			res.SkippedBy[SkipPartnerWeekLimit]++
			continue
		}

		capKey := string(c.PersonID) + "|" + c.Make
		if opts.EnableTierCaps {
			if capRemaining[capKey] <= 0 {
				res.SkippedBy[SkipTierCap]++
				continue
			}
		}

		startDay, ok := pickStartDay(grid, c.VIN, days, loanLength, opsCapacity, opts.EnableCapacity)
		if !ok {
			res.SkippedBy[SkipNoFeasibleStartDay]++
			continue
		}

		if opts.EnableCapacity {
			if !opsCapacity.Commit(startDay) {
				// Capacity changed between the probe above and here only
				// if something outside this single-writer loop mutated
				// it, which never happens; kept as a defensive no-op
				// skip rather than a panic.
				res.SkippedBy[SkipNoFeasibleStartDay]++
				continue
			}
		}

		vinUsed[c.VIN] = true
		partnerWeekCount[c.PersonID]++
		if opts.EnableTierCaps {
			capRemaining[capKey]--
		}

		endDay := startDay.AddDays(loanLength - 1)
		res.Assignments = append(res.Assignments, domain.Assignment{
			VIN:       c.VIN,
			PersonID:  c.PersonID,
			StartDay:  startDay,
			EndDay:    endDay,
			Make:      c.Make,
			Model:     c.Model,
			Office:    c.Market,
			Score:     c.Score,
			WeekStart: c.WeekStart,
		})
	}

	return res
}

// pickStartDay finds the earliest day within the week such that the VIN
// is available for loanLength consecutive days beginning there AND (if
// capacity checks are enabled) that day still has a free slot.
func pickStartDay(grid availability.Grid, vin domain.VIN, days [7]domain.Date, loanLength int, ledger *capacity.Ledger, enableCapacity bool) (domain.Date, bool) {
	for i, day := range days {
		if !grid.ConsecutiveAvailableFrom(vin, i, loanLength) {
			continue
		}
		if enableCapacity && ledger.Remaining(day) <= 0 {
			continue
		}
		return day, true
	}
	return domain.Date{}, false
}
