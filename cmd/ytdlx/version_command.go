package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"ytdlx"
)

func newVersionCommand(ctx *commandContext) *cobra.Command {
	var withEngine bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ytdlx %s\n", moduleVersion())
			if !withEngine {
				return nil
			}
			return ctx.withClient(true, func(client *ytdlx.Client) error {
				runCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				version, err := client.EngineVersion(runCtx)
				if err != nil {
					fmt.Fprintf(out, "engine: unavailable (%v)\n", err)
					return nil
				}
				fmt.Fprintf(out, "engine %s\n", version)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withEngine, "engine", false, "Also report the extractor engine version")
	return cmd
}

func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
