/*
Package capacity implements the Capacity Ledger: an office-scoped,
single-writer accumulator of remaining loan-start slots per calendar day.

SEE ALSO:
  - spec.md §4.7
  - generic/ledger.go (teacher): single-owner mutable accumulator this
    package's Ledger is grounded on.
*/
package capacity

import (
	"github.com/aininja-pro/media-scheduler/domain"
)

// Ledger tracks remaining slots per date for one office's week. It is not
// safe for concurrent use — per §5, it is single-owner, single-writer
// within the Greedy Assigner.
type Ledger struct {
	remaining map[domain.Date]int
}

// New initializes a Ledger from OpsCapacity rows for the office's seven
// target days. Days with no OpsCapacity row default to 0 slots, per §4.7.
func New(rows []domain.OpsCapacity, days [7]domain.Date) *Ledger {
	l := &Ledger{remaining: make(map[domain.Date]int, 7)}
	for _, d := range days {
		l.remaining[d] = 0
	}
	for _, r := range rows {
		if _, tracked := l.remaining[r.Date]; tracked {
			l.remaining[r.Date] = r.Slots
		}
	}
	return l
}

// Remaining returns the slots left on date.
func (l *Ledger) Remaining(date domain.Date) int {
	return l.remaining[date]
}

// Commit decrements date's bucket by one. It reports false (no-op) if the
// bucket was already at zero, per §4.7's reject-on-exhaustion rule.
func (l *Ledger) Commit(date domain.Date) bool {
	if l.remaining[date] <= 0 {
		return false
	}
	l.remaining[date]--
	return true
}
