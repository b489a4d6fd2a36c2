package locator

import (
	"context"
	"strings"
)

// Requirement defines an external dependency ytdlx relies on.
type Requirement struct {
	Name        string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Path        string
	Source      Source
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// DefaultRequirements lists the executables a full download needs.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Name: ToolEngine, Description: "metadata extractor engine"},
		{Name: ToolFFmpeg, Description: "transcoding binary"},
		{Name: ToolFFprobe, Description: "media inspection binary"},
		{Name: ToolTor, Description: "proxy daemon for engine traffic", Optional: true},
	}
}

// Check evaluates the provided requirements and reports availability.
func (l *Locator) Check(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		tool, err := l.Locate(ctx, req.Name)
		if err != nil {
			status.Available = false
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = tool.Path
		status.Source = tool.Source
		results = append(results, status)
	}
	return results
}
