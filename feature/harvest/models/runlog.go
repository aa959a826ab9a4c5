package models

import "time"

// HarvestRun is the run-history row recorded after every successful pass
// when the optional database connection is available.
type HarvestRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Total      int       `json:"total"`
	Forced     bool      `json:"forced"`
}

// TableName sets the table name for GORM.
func (HarvestRun) TableName() string {
	return "harvest_runs"
}
