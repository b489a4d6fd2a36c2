package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytdlx"
	"ytdlx/internal/locator"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show where every external executable was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(true, func(client *ytdlx.Client) error {
				tools, err := client.LocateTools(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, toolsReport(tools))
				}
				headers := []string{"Tool", "Path", "Source"}
				rows := make([][]string, 0, 4)
				for _, tool := range []locator.Tool{tools.Engine, tools.FFmpeg, tools.FFprobe, tools.Tor} {
					if tool.Name == "" {
						continue
					}
					rows = append(rows, []string{tool.Name, tool.Path, string(tool.Source)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit tool paths as JSON")
	return cmd
}

// toolsReport mirrors the launcher's tool-paths report shape.
func toolsReport(tools locator.Toolset) map[string]string {
	report := make(map[string]string, 4)
	for _, tool := range []locator.Tool{tools.Engine, tools.FFmpeg, tools.FFprobe, tools.Tor} {
		if tool.Name == "" {
			continue
		}
		report[tool.Name] = tool.Path
	}
	return report
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external dependency availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			loc := locator.New(locator.WithOverrides(locator.Overrides{
				Engine:  cfg.Tools.Engine,
				FFmpeg:  cfg.Tools.FFmpeg,
				FFprobe: cfg.Tools.FFprobe,
				Tor:     cfg.Tools.Tor,
			}))

			statuses := loc.Check(cmd.Context(), locator.DefaultRequirements())
			out := cmd.OutOrStdout()
			missingRequired := false
			for _, status := range statuses {
				switch {
				case status.Available:
					fmt.Fprintf(out, "  %-10s OK       %s (%s)\n", status.Name+":", status.Path, status.Source)
				case status.Optional:
					fmt.Fprintf(out, "  %-10s MISSING  optional, %s\n", status.Name+":", status.Description)
				default:
					missingRequired = true
					fmt.Fprintf(out, "  %-10s MISSING  %s\n", status.Name+":", status.Detail)
				}
			}
			if missingRequired {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
}
