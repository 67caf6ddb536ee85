package models

// ErrorResponse is the body for 404/422/500 responses from /news_scrape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ConfigErrorResponse is the soft-fail body returned when the search API key
// is not configured. It is sent with status 200.
type ConfigErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
