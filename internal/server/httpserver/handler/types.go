package handler

// InternalErrorMessage is the body text of every 500 response.
const InternalErrorMessage = "Something went wrong!"

// HealthResponse is the response body for GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	// Timestamp is RFC 3339 in UTC with millisecond precision.
	Timestamp string `json:"timestamp"`
	// Uptime is the process uptime in seconds.
	Uptime float64 `json:"uptime"`
}

// InfoResponse is the response body for GET /api/info.
type InfoResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Hostname    string `json:"hostname"`
	Description string `json:"description"`
}

// ErrorResponse is the body of error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
