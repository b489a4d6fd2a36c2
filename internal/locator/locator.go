package locator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Tool names the executables ytdlx orchestrates.
const (
	ToolEngine  = "ytprobe"
	ToolFFmpeg  = "ffmpeg"
	ToolFFprobe = "ffprobe"
	ToolTor     = "tor"
)

// Source identifies which discovery strategy produced a path.
type Source string

const (
	SourceConfig       Source = "config"
	SourceSidecar      Source = "sidecar"
	SourceBundle       Source = "bundle"
	SourcePath         Source = "path"
	SourceEngineReport Source = "engine-report"
)

// ErrNotFound indicates no discovery strategy produced an executable.
var ErrNotFound = errors.New("executable not found")

// ErrNotExecutable indicates a candidate exists but cannot be executed.
var ErrNotExecutable = errors.New("file is not executable")

// Tool is a located executable.
type Tool struct {
	Name   string
	Path   string
	Source Source
}

// Toolset bundles every executable a download operation needs. Tor is
// optional; its zero value means it was not found.
type Toolset struct {
	Engine  Tool
	FFmpeg  Tool
	FFprobe Tool
	Tor     Tool
}

// Overrides carries explicit paths from configuration. Empty fields fall
// back to discovery.
type Overrides struct {
	Engine  string
	FFmpeg  string
	FFprobe string
	Tor     string
}

// Locator discovers the external executables across platforms. Discovery
// order for each tool: explicit override, sidecar next to the running
// executable, bundled context directories, $PATH, and finally the engine's
// own --locate report.
type Locator struct {
	overrides  Overrides
	lookPath   func(string) (string, error)
	executable func() (string, error)
	getwd      func() (string, error)
}

// Option configures a Locator.
type Option func(*Locator)

// WithOverrides supplies configured tool paths.
func WithOverrides(overrides Overrides) Option {
	return func(l *Locator) {
		l.overrides = overrides
	}
}

// New constructs a Locator.
func New(opts ...Option) *Locator {
	l := &Locator{
		lookPath:   exec.LookPath,
		executable: os.Executable,
		getwd:      os.Getwd,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve locates the engine, ffmpeg, and ffprobe, consulting the engine
// self-report for transcoder binaries the filesystem strategies missed.
// Tor is resolved best-effort and never fails the set.
func (l *Locator) Resolve(ctx context.Context) (Toolset, error) {
	var set Toolset

	engine, err := l.Locate(ctx, ToolEngine)
	if err != nil {
		return set, fmt.Errorf("locate %s: %w", ToolEngine, err)
	}
	set.Engine = engine

	var report map[string]string
	locateWithReport := func(name string) (Tool, error) {
		tool, err := l.Locate(ctx, name)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return tool, err
		}
		if report == nil {
			report, _ = engineReport(ctx, engine.Path)
		}
		if candidate := strings.TrimSpace(report[name]); candidate != "" {
			if verifyErr := verifyExecutable(candidate); verifyErr == nil {
				return Tool{Name: name, Path: candidate, Source: SourceEngineReport}, nil
			}
		}
		return Tool{}, err
	}

	if set.FFmpeg, err = locateWithReport(ToolFFmpeg); err != nil {
		return set, fmt.Errorf("locate %s: %w", ToolFFmpeg, err)
	}
	if set.FFprobe, err = locateWithReport(ToolFFprobe); err != nil {
		return set, fmt.Errorf("locate %s: %w", ToolFFprobe, err)
	}
	if tor, err := locateWithReport(ToolTor); err == nil {
		set.Tor = tor
	}

	return set, nil
}

// Locate finds a single tool using the filesystem strategies.
func (l *Locator) Locate(_ context.Context, name string) (Tool, error) {
	if override := l.override(name); override != "" {
		if err := verifyExecutable(override); err != nil {
			return Tool{}, fmt.Errorf("configured path for %s: %w", name, err)
		}
		return Tool{Name: name, Path: override, Source: SourceConfig}, nil
	}

	for _, candidate := range l.sidecarCandidates(name) {
		if verifyExecutable(candidate) == nil {
			return Tool{Name: name, Path: candidate, Source: SourceSidecar}, nil
		}
	}

	for _, candidate := range l.bundleCandidates(name) {
		if verifyExecutable(candidate) == nil {
			return Tool{Name: name, Path: candidate, Source: SourceBundle}, nil
		}
	}

	for _, variant := range platformNames(name) {
		if resolved, err := l.lookPath(variant); err == nil {
			return Tool{Name: name, Path: resolved, Source: SourcePath}, nil
		}
	}

	return Tool{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (l *Locator) override(name string) string {
	switch name {
	case ToolEngine:
		return strings.TrimSpace(l.overrides.Engine)
	case ToolFFmpeg:
		return strings.TrimSpace(l.overrides.FFmpeg)
	case ToolFFprobe:
		return strings.TrimSpace(l.overrides.FFprobe)
	case ToolTor:
		return strings.TrimSpace(l.overrides.Tor)
	}
	return ""
}

// sidecarCandidates mirrors the bundled launcher: a tool shipped next to the
// running executable wins over anything on $PATH.
func (l *Locator) sidecarCandidates(name string) []string {
	exe, err := l.executable()
	if err != nil {
		return nil
	}
	dir := filepath.Dir(exe)
	candidates := make([]string, 0, 2)
	for _, variant := range platformNames(name) {
		candidates = append(candidates, filepath.Join(dir, variant))
	}
	return candidates
}

// bundleCandidates covers the packaged layout (context/<os>/ beside the
// executable) and the development tree (context/<os>/ under the working
// directory).
func (l *Locator) bundleCandidates(name string) []string {
	platformDir := "linux"
	if runtime.GOOS == "windows" {
		platformDir = "windows"
	}

	roots := make([]string, 0, 2)
	if exe, err := l.executable(); err == nil {
		roots = append(roots, filepath.Dir(exe))
	}
	if wd, err := l.getwd(); err == nil {
		roots = append(roots, wd)
	}

	candidates := make([]string, 0, len(roots)*2)
	for _, root := range roots {
		for _, variant := range platformNames(name) {
			candidates = append(candidates, filepath.Join(root, "context", platformDir, variant))
		}
	}
	return candidates
}

// platformNames returns the file name variants a tool ships under: bare name
// everywhere, .exe on Windows, and the .bin convention used by Linux bundles.
func platformNames(name string) []string {
	if runtime.GOOS == "windows" {
		return []string{name + ".exe", name}
	}
	return []string{name, name + ".bin"}
}

func verifyExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotExecutable, path)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s", ErrNotExecutable, path)
	}
	return nil
}
