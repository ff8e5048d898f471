package models

// MarkAttendanceResponse acknowledges an attendance submission
type MarkAttendanceResponse struct {
	Message           string `json:"message"`
	Date              string `json:"date"`
	Marked            int    `json:"marked"`
	Rectification     bool   `json:"rectification"`
	RemainingAttempts int    `json:"remainingAttempts"`
	MaxAttempts       int    `json:"maxAttempts"`
}

// QuotaResponse is the body of GET /rectifications/attempts
type QuotaResponse struct {
	YearMonth         string `json:"yearMonth"`
	AttemptsUsed      int    `json:"attemptsUsed"`
	RemainingAttempts int    `json:"remainingAttempts"`
	MaxAttempts       int    `json:"maxAttempts"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
