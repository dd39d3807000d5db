// Package types contains the JSON shapes shared by the HTTP API and its client.
package types

// EntryRequest is the body of POST /entries.
type EntryRequest struct {
	SubmissionID string `json:"submission_id,omitempty"`
	RaceDate     string `json:"race_date"`
	BoatName     string `json:"boat_name"`
	SkipperName  string `json:"skipper_name"`
	BoatType     string `json:"boat_type"`
	StartTime    string `json:"start_time"`
	FinishTime   string `json:"finish_time"`
	Comments     string `json:"comments,omitempty"`
}

// EntryReceipt acknowledges a stored submission.
type EntryReceipt struct {
	SubmissionID  string   `json:"submission_id"`
	Duplicate     bool     `json:"duplicate"`
	RaceDate      string   `json:"race_date"`
	SkipperName   string   `json:"skipper_name"`
	BoatName      string   `json:"boat_name"`
	BoatType      string   `json:"boat_type"`
	StartTime     string   `json:"start_time"`
	FinishTime    string   `json:"finish_time"`
	ElapsedTime   string   `json:"elapsed_time"`
	CorrectedTime string   `json:"corrected_time"`
	SubmittedAt   string   `json:"submitted_at"`
	Warnings      []string `json:"warnings,omitempty"`
	Message       string   `json:"message"`
}

// BoardRow is one ranked line of the weekly leaderboard.
type BoardRow struct {
	Position      int    `json:"position"`
	SkipperName   string `json:"skipper_name"`
	BoatName      string `json:"boat_name"`
	BoatType      string `json:"boat_type"`
	ElapsedTime   string `json:"elapsed_time"`
	CorrectedTime string `json:"corrected_time"`
	Points        int    `json:"points"`
	SubmittedAt   string `json:"submitted_at"`
}

// WeeklyBoard is the response of GET /leaderboard/weekly.
type WeeklyBoard struct {
	RaceDate  string     `json:"race_date,omitempty"`
	FleetSize int        `json:"fleet_size"`
	Rows      []BoardRow `json:"rows"`
	Warning   string     `json:"warning,omitempty"`
}

// Standing is one skipper's total for the year.
type Standing struct {
	Position    int    `json:"position"`
	SkipperName string `json:"skipper_name"`
	Points      int    `json:"points"`
	Races       int    `json:"races"`
}

// AnnualBoard is the response of GET /leaderboard/annual.
type AnnualBoard struct {
	Year      int        `json:"year,omitempty"`
	Races     int        `json:"races"`
	Standings []Standing `json:"standings"`
	Warning   string     `json:"warning,omitempty"`
}

// BoatType is one row of GET /boat-types.
type BoatType struct {
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	Multiplier float64 `json:"multiplier"`
}

// PointsRow is the points awarded by finishing place for one fleet size.
type PointsRow struct {
	FleetSize string `json:"fleet_size"`
	Points    []int  `json:"points"`
}

// ScoringRules is the response of GET /scoring.
type ScoringRules struct {
	RaceDay       string      `json:"race_day"`
	StartAfter    string      `json:"start_after"`
	LatestStart   string      `json:"latest_start"`
	LatestFinish  string      `json:"latest_finish"`
	DefaultRating float64     `json:"default_rating"`
	StrictTypes   bool        `json:"strict_boat_types"`
	PointsTable   []PointsRow `json:"points_table"`
	Instructions  []string    `json:"instructions"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
