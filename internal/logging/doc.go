// Package logging builds slog loggers for ytdlx with a compact console
// handler for terminals and a JSON handler for log files and scripting.
package logging
