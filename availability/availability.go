/*
Package availability builds the weekly per-VIN availability grid.

PURPOSE:
  For each vehicle in an office, for each of the seven days of a target
  week, decide whether the vehicle is available to start a loan that day.

FAILURE SEMANTICS:
  Row-level failures are silent: a missing in-service/turn-in date, or an
  unparseable activity date, drops that ONE constraint, never the row. An
  empty vehicle set yields an empty grid (not an error).

SEE ALSO:
  - spec.md §4.1
  - generic/projection.go (teacher): interval/window reasoning this
    package's day-by-day walk is grounded on.
*/
package availability

import (
	"sort"

	"github.com/aininja-pro/media-scheduler/domain"
)

// Row is one (vin, day, available) grid cell.
type Row struct {
	VIN       domain.VIN
	Day       domain.Date
	Available bool
}

// Grid groups the week's rows for convenient downstream lookups.
type Grid struct {
	rows map[domain.VIN][7]bool
	days [7]domain.Date
}

// Build produces the availability grid for every vehicle in office whose
// Office matches, for the seven days starting at weekStart.
func Build(vehicles []domain.Vehicle, activity []domain.CurrentActivity, weekStart domain.Date, office string) Grid {
	days := domain.WeekDays(weekStart)

	activityByVIN := make(map[domain.VIN][]domain.CurrentActivity)
	for _, a := range activity {
		activityByVIN[a.VIN] = append(activityByVIN[a.VIN], a)
	}

	g := Grid{rows: make(map[domain.VIN][7]bool), days: days}

	for _, v := range vehicles {
		if v.Office != office {
			continue
		}
		var week [7]bool
		for i, day := range days {
			week[i] = isAvailable(v, activityByVIN[v.VIN], day)
		}
		g.rows[v.VIN] = week
	}
	return g
}

// isAvailable evaluates the three blocking conditions from §4.1. Each
// condition is skipped (not blocking) when its underlying date is absent
// or unparseable — only the row's own available flag for that one day is
// affected, never the rest of the grid.
func isAvailable(v domain.Vehicle, windows []domain.CurrentActivity, day domain.Date) bool {
	if v.InServiceDate != nil && day.Before(*v.InServiceDate) {
		return false
	}
	if v.ExpectedTurnInDate != nil && day.AfterOrEqual(*v.ExpectedTurnInDate) {
		return false
	}
	for _, w := range windows {
		if w.StartDate.IsZero() || w.EndDate.IsZero() {
			continue
		}
		if day.AfterOrEqual(w.StartDate) && day.BeforeOrEqual(w.EndDate) {
			return false
		}
	}
	return true
}

// Rows flattens the grid into (vin, day, available) rows, in VIN then day
// order, matching the contract's described shape.
func (g Grid) Rows() []Row {
	vins := make([]domain.VIN, 0, len(g.rows))
	for vin := range g.rows {
		vins = append(vins, vin)
	}
	sort.Slice(vins, func(i, j int) bool { return vins[i] < vins[j] })

	var out []Row
	for _, vin := range vins {
		week := g.rows[vin]
		for i, day := range g.days {
			out = append(out, Row{VIN: vin, Day: day, Available: week[i]})
		}
	}
	return out
}

// AvailableDays returns the count of available days in the week for vin,
// and whether the VIN was present in the grid at all.
func (g Grid) AvailableDays(vin domain.VIN) (int, bool) {
	week, ok := g.rows[vin]
	if !ok {
		return 0, false
	}
	n := 0
	for _, a := range week {
		if a {
			n++
		}
	}
	return n, true
}

// ConsecutiveAvailableFrom reports whether vin is available for `length`
// consecutive days starting at the grid day with index startIdx (0..6)
// (used by the Greedy Assigner to pick a feasible start day).
func (g Grid) ConsecutiveAvailableFrom(vin domain.VIN, startIdx, length int) bool {
	week, ok := g.rows[vin]
	if !ok {
		return false
	}
	if startIdx < 0 || startIdx+length > 7 {
		// This week's grid only models 7 days; a window that would run
		// past it can't be confirmed available and is not feasible.
		return false
	}
	for i := startIdx; i < startIdx+length; i++ {
		if !week[i] {
			return false
		}
	}
	return true
}

// Days returns the seven calendar days this grid covers.
func (g Grid) Days() [7]domain.Date { return g.days }
