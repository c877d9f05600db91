// Package app provides the application service layer.
//
// Service exposes every reporting use case: per-item and site-wide scalars,
// period charts, rankings, recent votes and the year list. It reads through
// the statistics cache and never returns an error to its caller: failures
// are logged and degrade to zero, an empty list, or an error-status series.
package app
