package models

import (
	"encoding/json"
	"time"
)

// PerformanceTarget is the expected collection amount assigned to an ATO.
// Zero or one per agent; a missing target is treated as 0 everywhere.
type PerformanceTarget struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	TargetAmount float64   `json:"target_amount"`
	SetBy        int       `json:"set_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetTargetRequest represents the request body for assigning a target
type SetTargetRequest struct {
	UserID       int     `json:"user_id"`
	TargetAmount float64 `json:"target_amount"`
}

// PerformanceSummary is a point-in-time capture of an agent's verified
// totals, used for trend comparison across agents. Append-only.
type PerformanceSummary struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	ATOName         string    `json:"ato_name"`
	RRRTotal        float64   `json:"rrr_total"`
	PayDirectTotal  float64   `json:"paydirect_total"`
	TotalAmount     float64   `json:"total_amount"`
	DateUploaded    time.Time `json:"date_uploaded"`
}

// MonthlyLeagueSnapshot is an append-only audit capture of the league table
// for a given month. Live aggregation never reads from it.
type MonthlyLeagueSnapshot struct {
	ID        int             `json:"id"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Data      json.RawMessage `json:"data"` // League rows serialized as JSON
	CreatedAt time.Time       `json:"created_at"`
}
