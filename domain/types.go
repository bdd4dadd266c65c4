/*
Package domain holds the read-only entities and produced records of the
media vehicle loan scheduling pipeline.

PURPOSE:
  Typed records for the tabular entities described by the scheduling
  system's data model: Vehicle, Partner, Eligibility, Rule, LoanHistory,
  CurrentActivity, OpsCapacity (external, read-only) and Candidate,
  Assignment (produced within a run).

DESIGN PRINCIPLES:
  1. Read-only: nothing in this package mutates an external entity.
  2. No database knowledge: these are plain structs, never sql.Rows.
  3. Rank is a closed, normalized enum, not a free-form string in the
     hot path (see rank.go).

SEE ALSO:
  - rank.go: Rank enum and normalization
  - date.go: Date type used throughout
  - provider: the read interface that produces these records
*/
package domain

// VIN is a vehicle identification number, unique per Vehicle.
type VIN string

// PersonID identifies a media partner.
type PersonID string

// Vehicle is a fleet vehicle tracked by VIN.
type Vehicle struct {
	VIN                 VIN
	Make                string
	Model                string
	Office              string
	InServiceDate       *Date
	ExpectedTurnInDate   *Date
}

// Partner is a media outlet contact eligible to receive loaner vehicles.
type Partner struct {
	PersonID  PersonID
	Name      string
	Office    string
	Latitude  *float64
	Longitude *float64
}

// Eligibility records that a partner is approved to receive a given make,
// at a given rank.
type Eligibility struct {
	PersonID PersonID
	Make     string
	Rank     Rank
}

// Rule resolves the annual loan cap and cooldown period for a (make, rank)
// pair, overriding the rank-keyed fallback ladder when present.
type Rule struct {
	Make               string
	Rank               Rank
	LoanCapPerYear     int
	CooldownPeriodDays *int
}

// LoanHistory is an append-only audit trail of completed or in-progress
// loans, read by Cooldown, Publication, and the Tier-Cap Resolver.
type LoanHistory struct {
	ActivityID     string
	PersonID       PersonID
	Make           string
	Model          *string
	StartDate      Date
	EndDate        Date
	ClipsReceived  *string
}

// CurrentActivity blocks a VIN's availability window for the interval
// [StartDate, EndDate].
type CurrentActivity struct {
	ActivityID   string
	VIN          VIN
	StartDate    Date
	EndDate      Date
	ActivityType string
}

// OpsCapacity is the number of loan starts an office may admit on a date.
type OpsCapacity struct {
	Office string
	Date   Date
	Slots  int
}

// Candidate is a (vin, person, week) triple that has cleared availability,
// eligibility, and cooldown. Immutable once produced by Candidate Join.
type Candidate struct {
	VIN           VIN
	PersonID      PersonID
	Market        string
	Make          string
	Model         string
	WeekStart     Date
	AvailableDays int
	CooldownOK    bool

	PublicationRateObserved *float64
	Supported               bool
	Coverage                float64

	Rank Rank

	// Score is populated by the Scorer; zero until then.
	Score int
}

// Assignment is a committed Candidate with a concrete start day. Terminal
// output of the pipeline.
type Assignment struct {
	VIN       VIN
	PersonID  PersonID
	StartDay  Date
	EndDay    Date
	Make      string
	Model     string
	Office    string
	Score     int
	WeekStart Date
}
