// Package telemetry provides structured logging for quarry, built on zerolog.
//
// A Logger is created once per process (or supplied by the embedding program)
// and handed to the config loader, which sets its level after resolving the
// effective log level from configuration and flags. Component child loggers
// carry a "component" field so loader, evaluator and watcher output can be
// told apart.
package telemetry
