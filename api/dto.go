/*
dto.go - Data Transfer Objects for the run-trigger API

PURPOSE:
  Defines the JSON structures the thin HTTP boundary exchanges with
  callers. Decouples the pipeline's internal types from the external API
  contract, so pipeline.Result can change shape without forcing a client
  API version bump.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - pipeline/pipeline.go: Result, the type these DTOs wrap
*/
package api

import (
	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/pipeline"
)

// CreateRunRequest is the request body for POST /api/runs.
type CreateRunRequest struct {
	Office    string `json:"office"`
	WeekStart string `json:"week_start"` // ISO 8601 YYYY-MM-DD
}

// AssignmentDTO is one committed assignment in a run's output.
type AssignmentDTO struct {
	VIN       string `json:"vin"`
	PersonID  string `json:"person_id"`
	StartDay  string `json:"start_day"`
	EndDay    string `json:"end_day"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Office    string `json:"office"`
	Score     int    `json:"score"`
	WeekStart string `json:"week_start"`
}

// StatsDTO carries the run's observational counters.
type StatsDTO struct {
	CandidatesConsidered int            `json:"candidates_considered"`
	CandidatesAdmitted   int            `json:"candidates_admitted"`
	SkippedBy            map[string]int `json:"skipped_by"`
}

// RunDTO is the full response for both POST /api/runs and GET /api/runs/{id}.
type RunDTO struct {
	RunID       string          `json:"run_id"`
	Office      string          `json:"office"`
	WeekStart   string          `json:"week_start"`
	Status      string          `json:"status"` // "completed" or "failed"
	Error       string          `json:"error,omitempty"`
	Assignments []AssignmentDTO `json:"assignments,omitempty"`
	Stats       StatsDTO        `json:"stats"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toRunDTO(result pipeline.Result) RunDTO {
	out := RunDTO{
		RunID:     result.RunID,
		Office:    result.Office,
		WeekStart: result.WeekStart.String(),
		Status:    "completed",
		Stats:     toStatsDTO(result.Stats),
	}
	out.Assignments = make([]AssignmentDTO, len(result.Assignments))
	for i, a := range result.Assignments {
		out.Assignments[i] = toAssignmentDTO(a)
	}
	return out
}

func toAssignmentDTO(a domain.Assignment) AssignmentDTO {
	return AssignmentDTO{
		VIN:       string(a.VIN),
		PersonID:  string(a.PersonID),
		StartDay:  a.StartDay.String(),
		EndDay:    a.EndDay.String(),
		Make:      a.Make,
		Model:     a.Model,
		Office:    a.Office,
		Score:     a.Score,
		WeekStart: a.WeekStart.String(),
	}
}

func toStatsDTO(s pipeline.Stats) StatsDTO {
	skipped := make(map[string]int, len(s.SkippedBy))
	for reason, count := range s.SkippedBy {
		skipped[string(reason)] = count
	}
	return StatsDTO{
		CandidatesConsidered: s.CandidatesConsidered,
		CandidatesAdmitted:   s.CandidatesAdmitted,
		SkippedBy:            skipped,
	}
}
