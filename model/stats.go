package model

import "time"

// Aggregate is a completed/total pair with its rounded percentage.
type Aggregate struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"user_id"`
	DisplayName    string `json:"display_name"`
	Points         int    `json:"points"`
	TasksCompleted int    `json:"tasks_completed"`
	Percentage     int    `json:"percentage"`
}

type HealthStats struct {
	Status        string            `json:"status"`
	Dependencies  map[string]string `json:"dependencies"`
	CPUPercent    float64           `json:"cpu_percent"`
	MemoryPercent float64           `json:"memory_percent"`
	Uptime        string            `json:"uptime"`
	CheckedAt     time.Time         `json:"checked_at"`
}
