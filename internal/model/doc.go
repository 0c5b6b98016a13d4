// Package model defines the domain types and value objects for the
// sky-view weather service.
//
// This package contains pure data structures with no external dependencies.
// All entities (ObservedReport, PredictedReport, DayFeatures, etc.) are
// transient representations built from upstream API responses — there is
// no persistent domain state beyond the history cache, which stores raw
// upstream payloads rather than these types.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
