// Package logger provides structured logging for recordkit using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and trace correlation from an OpenTelemetry span in the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("record")
//	log.Info("record published", logger.Fields("record", "radio"))
package logger
