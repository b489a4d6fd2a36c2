// Package locator discovers the external executables ytdlx orchestrates:
// the metadata extractor engine, ffmpeg, ffprobe, and optionally tor.
//
// Discovery runs through fallback strategies in a fixed order so bundled
// distributions, development trees, and system installs all resolve without
// configuration: explicit config override, sidecar binary next to the ytdlx
// executable, bundled context/<platform>/ directories, $PATH, and the
// engine's own --locate JSON report for the tools it ships with.
package locator
