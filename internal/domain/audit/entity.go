package audit

// Entry is one append-only audit record. Persisted as a flat JSON object.
type Entry struct {
	LogID     string         `json:"log_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	UserID    string         `json:"user_id"`
	Timestamp string         `json:"timestamp"`
	Service   string         `json:"service"`
}
