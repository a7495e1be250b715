package domain

type LoggerFactory interface {
	CreateLogger(component string) Logger
}

// Shutdowner is implemented by loggers that buffer entries and must flush
// them before the process exits.
type Shutdowner interface {
	Shutdown() error
}
