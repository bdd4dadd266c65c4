/*
Package publication computes rolling 24-month publication rate statistics
per (partner, make).

PURPOSE:
  Distinguish "never observed" (null rate) from "observed and zero" (rate
  0.0) — the null-vs-zero distinction is load-bearing per §4.3 and must
  never be collapsed. See Stat.PublicationRate (a pointer, nil meaning
  unknown).

SEE ALSO:
  - spec.md §4.3
  - rewards/accrual.go (teacher): rolling-window aggregation this
    package's window filter is grounded on.
  - original_source/backend/test_clips_normalization.py: the exact input
    table NormalizeClips's tests are built from.
*/
package publication

import (
	"strconv"
	"strings"

	"github.com/aininja-pro/media-scheduler/domain"
)

const (
	DefaultWindowMonths = 24
	DefaultMinObserved  = 3
)

// Clips is the tri-state result of normalizing a clips_received value.
type Clips int

const (
	ClipsUnknown Clips = iota
	ClipsPublished
	ClipsNotPublished
)

// NormalizeClips folds the free-form clips_received text into a tri-state
// result, per §4.3's normalization rule:
//
//	{true, yes}            -> published
//	{false, no}            -> not published
//	{"", null, none, nan}  -> unknown
//	otherwise numeric      -> non-zero published, zero not published
//	otherwise              -> unknown
func NormalizeClips(raw *string) Clips {
	if raw == nil {
		return ClipsUnknown
	}
	s := strings.ToLower(strings.TrimSpace(*raw))
	switch s {
	case "true", "yes":
		return ClipsPublished
	case "false", "no":
		return ClipsNotPublished
	case "", "null", "none", "nan":
		return ClipsUnknown
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f != 0 {
			return ClipsPublished
		}
		return ClipsNotPublished
	}
	return ClipsUnknown
}

// Stat is one (person, make) aggregate row.
type Stat struct {
	PersonID              domain.PersonID
	Make                  string
	LoansTotal24m         int
	LoansObserved24m      int
	PublicationsObserved24m int

	// PublicationRate is nil when LoansObserved24m == 0 — never rendered
	// as zero.
	PublicationRate *float64
	Coverage        float64
	Supported       bool
}

type key struct {
	Person domain.PersonID
	Make   string
}

// Compute24mRate aggregates loan history in [asOf - windowMonths, asOf]
// into one Stat per observed (person, make) grain.
func Compute24mRate(history []domain.LoanHistory, asOf domain.Date, windowMonths, minObserved int) map[key]Stat {
	if windowMonths <= 0 {
		windowMonths = DefaultWindowMonths
	}
	if minObserved <= 0 {
		minObserved = DefaultMinObserved
	}
	windowStart := asOf.AddMonths(-windowMonths)

	acc := make(map[key]*Stat)
	for _, h := range history {
		if h.StartDate.After(asOf) || h.EndDate.Before(windowStart) {
			continue
		}
		k := key{Person: h.PersonID, Make: h.Make}
		s, ok := acc[k]
		if !ok {
			s = &Stat{PersonID: h.PersonID, Make: h.Make}
			acc[k] = s
		}
		s.LoansTotal24m++

		c := NormalizeClips(h.ClipsReceived)
		if c != ClipsUnknown {
			s.LoansObserved24m++
			if c == ClipsPublished {
				s.PublicationsObserved24m++
			}
		}
	}

	out := make(map[key]Stat, len(acc))
	for k, s := range acc {
		if s.LoansObserved24m > 0 {
			rate := float64(s.PublicationsObserved24m) / float64(s.LoansObserved24m)
			s.PublicationRate = &rate
		}
		if s.LoansTotal24m > 0 {
			s.Coverage = float64(s.LoansObserved24m) / float64(s.LoansTotal24m)
		}
		s.Supported = s.LoansObserved24m >= minObserved
		out[k] = *s
	}
	return out
}

// Lookup fetches the stat for (person, make) from a Compute24mRate result;
// an absent grain reports an unsupported, zero-coverage, nil-rate Stat —
// never an error.
func Lookup(stats map[key]Stat, person domain.PersonID, make_ string) Stat {
	if s, ok := stats[key{Person: person, Make: make_}]; ok {
		return s
	}
	return Stat{PersonID: person, Make: make_}
}

// Key re-exports the lookup key constructor for callers outside this
// package that need to build the same map key.
func Key(person domain.PersonID, make_ string) key { return key{Person: person, Make: make_} }
