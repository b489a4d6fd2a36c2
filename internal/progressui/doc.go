// Package progressui renders download progress on the terminal, degrading to
// plain log lines when stdout is redirected.
package progressui
