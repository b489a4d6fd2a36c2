package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ytdlx"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search and list matching videos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(true, func(client *ytdlx.Client) error {
				entries, err := client.Search(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No results")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), entryTable(entries))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default from configuration)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "List the entries of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(true, func(client *ytdlx.Client) error {
				playlist, err := client.Playlist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, playlist)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Playlist: %s (%d entries)\n", playlist.Title, len(playlist.Entries))
				if len(playlist.Entries) > 0 {
					fmt.Fprintln(out, entryTable(playlist.Entries))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the playlist as JSON")
	return cmd
}

func entryTable(entries []ytdlx.Entry) string {
	headers := []string{"#", "Title", "Channel", "Duration", "URL"}
	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.Title,
			entry.Channel,
			formatDuration(entry.Duration),
			entry.URL,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft})
}
