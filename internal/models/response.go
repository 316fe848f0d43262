package models

// ResponseEntry is an immutable record of one module completion by one
// user. It is always persisted before any registry forwarding is
// attempted and is never mutated afterwards.
type ResponseEntry struct {
	DataType         string  `json:"data_type"`
	UserID           string  `json:"user_id"`
	StudyID          string  `json:"study_id"`
	ModuleIndex      int     `json:"module_index"`
	Platform         string  `json:"platform"`
	ModuleID         string  `json:"module_id"`
	ModuleName       string  `json:"module_name"`
	Responses        *string `json:"responses"`
	Entries          []int   `json:"entries"`
	ResponseTime     string  `json:"response_time"`
	ResponseTimeInMS int64   `json:"response_time_in_ms"`
	AlertTime        string  `json:"alert_time"`
}

// LogEntry is a raw UI event backed up for diagnostics.
type LogEntry struct {
	DataType      string `json:"data_type"`
	UserID        string `json:"user_id"`
	StudyID       string `json:"study_id"`
	ModuleIndex   int    `json:"module_index"`
	Platform      string `json:"platform"`
	Page          string `json:"page"`
	Event         string `json:"event"`
	Timestamp     string `json:"timestamp"`
	TimestampInMS int64  `json:"timestamp_in_ms"`
}
