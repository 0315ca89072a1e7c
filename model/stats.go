package model

import "time"

type DependencyStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthStats is the body of the health endpoint.
type HealthStats struct {
	Status       string             `json:"status"`
	Service      string             `json:"service"`
	CheckedAt    time.Time          `json:"checked_at"`
	Dependencies []DependencyStatus `json:"dependencies"`
	System       struct {
		CPUPercent       float64 `json:"cpu_percent"`
		MemoryPercent    float64 `json:"memory_percent"`
		MongoConnections int64   `json:"mongo_connections"`
		ActiveSessions   int64   `json:"active_sessions"`
	} `json:"system"`
}
