/*
Package scoring implements the Scorer: a deterministic, integer mapping
from each candidate to a comparable score, plus the total ordering used to
break ties.

SEE ALSO:
  - spec.md §4.5
  - factory/policy.go (teacher): declarative, table-driven resolution this
    package's rank_base table is grounded on.
*/
package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aininja-pro/media-scheduler/domain"
)

// RankBase is the base score contributed by a candidate's rank.
var RankBase = map[domain.Rank]int{
	domain.RankAPlus: 80,
	domain.RankA:     50,
	domain.RankB:     20,
	domain.RankC:     15,
}

const (
	GeoBonus        = 30
	HistoryBonusMax = 20
)

// Score computes rank_base + geo_bonus + history_bonus, clamped to >= 0,
// for one candidate. partnerOffice is the requesting partner's office;
// it is compared against the candidate's Market for the geo bonus.
func Score(c domain.Candidate, partnerOffice string) int {
	base := RankBase[c.Rank] // unknown/other ranks default to the zero value, 0

	geo := 0
	if partnerOffice != "" && partnerOffice == c.Market {
		geo = GeoBonus
	}

	history := HistoryBonus(c.PublicationRateObserved)

	total := base + geo + history
	if total < 0 {
		total = 0
	}
	return total
}

// HistoryBonus maps a publication rate to an integer bonus in [0, 20],
// monotone and bounded per §4.5. nil (no history, or unknown rate) is
// "no history bonus," never "worst case": it resolves to 0, same as a
// rate of exactly 0.0, but for a different reason — this function can't
// tell nil and 0.0 apart by return value alone, which is fine because the
// contract only requires monotone+bounded, not that nil be distinguishable
// downstream of scoring (it still is, upstream, via the *float64).
//
// Linear: round(rate * HistoryBonusMax), computed in decimal to avoid
// float drift before truncating to int at the boundary.
func HistoryBonus(rate *float64) int {
	if rate == nil {
		return 0
	}
	r := decimal.NewFromFloat(*rate)
	if r.LessThan(decimal.Zero) {
		r = decimal.Zero
	}
	if r.GreaterThan(decimal.NewFromInt(1)) {
		r = decimal.NewFromInt(1)
	}
	bonus := r.Mul(decimal.NewFromInt(HistoryBonusMax)).Round(0)
	return int(bonus.IntPart())
}

// ScoreAll scores every candidate in place, given each partner's office.
func ScoreAll(cands []domain.Candidate, officeByPartner map[domain.PersonID]string) {
	for i := range cands {
		cands[i].Score = Score(cands[i], officeByPartner[cands[i].PersonID])
	}
}

// Less implements the total, deterministic ordering from §4.5: higher
// score first; ties break by higher available_days, then lower person_id,
// then lower vin lexicographically.
func Less(a, b domain.Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.AvailableDays != b.AvailableDays {
		return a.AvailableDays > b.AvailableDays
	}
	if a.PersonID != b.PersonID {
		return a.PersonID < b.PersonID
	}
	return a.VIN < b.VIN
}

// Sort orders candidates in place by the §4.5 total ordering.
func Sort(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool { return Less(cands[i], cands[j]) })
}
