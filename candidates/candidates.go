/*
Package candidates implements Candidate Join: the intersection of
Availability, Cooldown, Publication, and partner-make eligibility into the
week's feasible (vin, partner) pairings.

SEE ALSO:
  - spec.md §4.4
  - generic/assignment.go (teacher): join/filter over keyed maps this
    package's multi-stage join is grounded on.
*/
package candidates

import (
	"github.com/samber/lo"

	"github.com/aininja-pro/media-scheduler/availability"
	"github.com/aininja-pro/media-scheduler/cooldown"
	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/publication"
)

// vehInfo pairs a vehicle that cleared the availability floor with the
// available-day count Scoring's tiebreak needs later.
type vehInfo struct {
	v             domain.Vehicle
	availableDays int
}

// Build runs the full Candidate Join procedure and returns the week's
// candidate set.
func Build(in BuildInput) []domain.Candidate {
	// Step 1+2: vehicles reduced to available_days >= min.
	withDays := lo.FilterMap(in.Vehicles, func(v domain.Vehicle, _ int) (vehInfo, bool) {
		days, present := in.Grid.AvailableDays(v.VIN)
		if !present || days < in.MinAvailableDays {
			return vehInfo{}, false
		}
		return vehInfo{v: v, availableDays: days}, true
	})

	// Eligibility keyed by (person, make) for the per-pair rank lookup in
	// step 3.
	eligByPersonMake := lo.GroupBy(in.Eligibility, func(e domain.Eligibility) string {
		return string(e.PersonID) + "|" + e.Make
	})

	var out []domain.Candidate
	for _, vi := range withDays {
		v := vi.v
		for _, p := range in.Partners {
			rank, eligible := resolveRank(eligByPersonMake, p.PersonID, v.Make, in.DefaultRankForUnlisted)
			if !eligible {
				continue
			}

			model := v.Model
			ok, _ := in.Cooldown.OK(p.PersonID, v.Make, model, in.WeekStart)
			if !ok {
				continue
			}

			stat := in.PublicationLookup(p.PersonID, v.Make)

			out = append(out, domain.Candidate{
				VIN:                     v.VIN,
				PersonID:                p.PersonID,
				Market:                  p.Office,
				Make:                    v.Make,
				Model:                   v.Model,
				WeekStart:               in.WeekStart,
				AvailableDays:           vi.availableDays,
				CooldownOK:              true,
				PublicationRateObserved: stat.PublicationRate,
				Supported:               stat.Supported,
				Coverage:                stat.Coverage,
				Rank:                    rank,
			})
		}
	}
	return out
}

// resolveRank applies §4.4 step 3: a partner approved for the vehicle's
// make uses their eligibility rank; otherwise, if a default rank is
// configured, the partner is admitted at that rank.
func resolveRank(elig map[string][]domain.Eligibility, person domain.PersonID, make_ string, defaultRank *domain.Rank) (domain.Rank, bool) {
	rows := elig[string(person)+"|"+make_]
	if len(rows) > 0 {
		return rows[0].Rank, true
	}
	if defaultRank != nil {
		return *defaultRank, true
	}
	return "", false
}

// BuildInput is the concrete input to Build; PublicationLookup is a
// closure rather than a plain map so callers can use the unexported
// publication.Stat key type without this package reaching into it.
type BuildInput struct {
	Vehicles               []domain.Vehicle
	Grid                   availability.Grid
	Partners               []domain.Partner
	Eligibility            []domain.Eligibility
	Cooldown               cooldown.Result
	PublicationLookup      func(domain.PersonID, string) publication.Stat
	WeekStart              domain.Date
	MinAvailableDays       int
	DefaultRankForUnlisted *domain.Rank
}
