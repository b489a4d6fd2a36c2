package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// engineReport asks the extractor for its own view of the bundled tool
// paths. --locate prints a JSON object mapping tool names to absolute paths.
func engineReport(ctx context.Context, enginePath string) (map[string]string, error) {
	if strings.TrimSpace(enginePath) == "" {
		return nil, fmt.Errorf("engine path is empty")
	}

	cmd := commandContext(ctx, enginePath, "--locate")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("engine locate report: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("parse locate report: %w", err)
	}

	report := make(map[string]string, len(raw))
	for key, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" || strings.EqualFold(value, "not found") {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "ffmpeg":
			report[ToolFFmpeg] = value
		case "ffprobe":
			report[ToolFFprobe] = value
		case "tor", "tor_executable":
			report[ToolTor] = value
		}
	}
	return report, nil
}
