package models

// ProgressUpdate is pushed to admin clients while a background job runs.
type ProgressUpdate struct {
	JobID    string  `json:"jobId"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"` // "running", "completed", "failed"
	Done     bool    `json:"done"`
}
