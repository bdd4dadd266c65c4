package pipeline

import (
	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/tiercap"
)

// Config is the full set of configuration options §6 of the spec
// recognizes, plus the two supplemental options decided in SPEC_FULL.md §9.
type Config struct {
	Office    string
	WeekStart domain.Date

	MinAvailableDays     int
	LoanLengthDays       int
	MaxPerPartnerPerWeek int
	DefaultCooldownDays  int

	TierCapFallback tiercap.FallbackLadder

	EnableTierCaps bool
	EnableCooldown bool
	EnableCapacity bool

	// CountInProgressLoansForCap resolves the §9 Open Question on
	// whether tier caps count loans straddling week_start. Default true;
	// see SPEC_FULL.md §9.1.
	CountInProgressLoansForCap bool

	// DefaultRankForUnlisted resolves the §9 Open Question on whether
	// partners with no eligibility row are admitted under a default
	// rank. Default &domain.RankC; nil disables the default-rank path.
	DefaultRankForUnlisted *domain.Rank

	PublicationWindowMonths int
	PublicationMinObserved  int
}

// DefaultConfig returns the documented defaults from §6, with the Open
// Question resolutions from SPEC_FULL.md §9 applied.
func DefaultConfig(office string, weekStart domain.Date) Config {
	defaultRank := domain.RankC
	return Config{
		Office:    office,
		WeekStart: weekStart,

		MinAvailableDays:     5,
		LoanLengthDays:       7,
		MaxPerPartnerPerWeek: 1,
		DefaultCooldownDays:  60,

		TierCapFallback: tiercap.DefaultFallbackLadder(),

		EnableTierCaps: true,
		EnableCooldown: true,
		EnableCapacity: true,

		CountInProgressLoansForCap: true,
		DefaultRankForUnlisted:     &defaultRank,

		PublicationWindowMonths: 24,
		PublicationMinObserved:  3,
	}
}
