package usecase

// MetricsService defines the interface for board metrics reporting
type MetricsService interface {
	// StartPeriodicMetrics starts the periodic metrics collection
	StartPeriodicMetrics() error

	// StopPeriodicMetrics stops the periodic metrics collection
	StopPeriodicMetrics() error

	// SendCurrentMetrics sends the current metrics immediately
	SendCurrentMetrics() error
}

// ClientCounter reports connected live clients (WebSocket hub)
type ClientCounter interface {
	ClientCount() int
}

// MetricsServiceError represents an error from metrics service operations
type MetricsServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *MetricsServiceError) Error() string {
	return e.Message
}

// NewMetricsServiceError creates a new metrics service error
func NewMetricsServiceError(code, message string) *MetricsServiceError {
	return &MetricsServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}
