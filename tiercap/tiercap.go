/*
Package tiercap resolves the annual loan cap per (partner, make) and
counts a partner's consumed loans in the trailing 12 months.

SEE ALSO:
  - spec.md §4.6
  - generic/policy.go's ReconciliationEngine (teacher): rule resolution
    with a documented fallback this package's cap ladder is grounded on.
*/
package tiercap

import (
	"github.com/aininja-pro/media-scheduler/domain"
)

// UnlimitedSentinel stands in for "no cap" (rank A+ on the fallback
// ladder) without needing a separate bool everywhere caps are compared.
const UnlimitedSentinel = 1 << 30

// FallbackLadder is the rank-keyed default cap used when no Rule exists
// for (make, rank). UnrankedCap is injected by the caller (§4.6:
// "0 by default; a configuration option permits a positive value").
type FallbackLadder struct {
	APlus       int
	A           int
	B           int
	C           int
	UnrankedCap int
}

// DefaultFallbackLadder matches §4.6 exactly.
func DefaultFallbackLadder() FallbackLadder {
	return FallbackLadder{
		APlus:       UnlimitedSentinel,
		A:           6,
		B:           2,
		C:           0,
		UnrankedCap: 0,
	}
}

func (f FallbackLadder) forRank(r domain.Rank) int {
	switch r {
	case domain.RankAPlus:
		return f.APlus
	case domain.RankA:
		return f.A
	case domain.RankB:
		return f.B
	case domain.RankC:
		return f.C
	default: // Pending, Unranked, anything unrecognized
		return f.UnrankedCap
	}
}

// ResolveCap returns the annual cap for (make, rank): a matching Rule
// takes precedence, otherwise the fallback ladder.
func ResolveCap(rules []domain.Rule, make_ string, rank domain.Rank, ladder FallbackLadder) int {
	for _, r := range rules {
		if r.Make == make_ && r.Rank == rank {
			return r.LoanCapPerYear
		}
	}
	return ladder.forRank(rank)
}

// Usage counts a partner's consumed loans per make over the trailing 12
// months before weekStart.
//
// countInProgress controls the §9 Open Question: when true (the default
// this repo decided on; see DESIGN.md), a loan whose interval overlaps
// [weekStart-365d, weekStart) counts even if it hasn't ended yet; when
// false, only loans whose EndDate falls in that window count.
func Usage(history []domain.LoanHistory, weekStart domain.Date, countInProgress bool) map[string]int {
	windowStart := weekStart.AddDays(-365)
	counts := make(map[string]int)
	for _, h := range history {
		var inWindow bool
		if countInProgress {
			inWindow = domain.Overlaps(h.StartDate, h.EndDate, windowStart, weekStart.AddDays(-1))
		} else {
			inWindow = h.EndDate.AfterOrEqual(windowStart) && h.EndDate.Before(weekStart)
		}
		if !inWindow {
			continue
		}
		counts[string(h.PersonID)+"|"+h.Make]++
	}
	return counts
}

// Remaining returns cap - loans_12m for (person, make), which may be
// negative if usage already exceeds a cap lowered since the loans were
// made; callers treat any non-positive value as inadmissible.
func Remaining(cap_, used int) int {
	return cap_ - used
}
