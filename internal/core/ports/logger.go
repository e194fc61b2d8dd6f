// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Debug logs a diagnostic that is only shown in verbose mode.
	Debug(msg string)
	Info(msg string)
	// Warn logs a warning that does not stop the pipeline.
	Warn(msg string)
	Error(err error)
	// Status reports a pipeline step such as "Packaging" or "Verifying".
	Status(verb, msg string)
}
