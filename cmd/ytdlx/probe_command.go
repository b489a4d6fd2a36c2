package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ytdlx"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <url-or-query>",
		Short: "Show metadata and available formats without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(true, func(client *ytdlx.Client) error {
				response, err := client.Probe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, response)
				}
				printResponse(cmd, response)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full response as JSON")
	return cmd
}

func printResponse(cmd *cobra.Command, response *ytdlx.Response) {
	out := cmd.OutOrStdout()
	meta := response.Metadata
	fmt.Fprintf(out, "Title:    %s\n", meta.Title)
	fmt.Fprintf(out, "Channel:  %s\n", meta.Channel)
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(meta.Duration))
	fmt.Fprintf(out, "URL:      %s\n", meta.WebpageURL)

	sections := []struct {
		label   string
		formats []ytdlx.Format
	}{
		{"Audio", response.AudioOnly},
		{"Audio (DRC)", response.AudioOnlyDRC},
		{"Video", response.VideoOnly},
		{"Video (HDR)", response.VideoOnlyHDR},
		{"Progressive", response.Progressive},
		{"Manifest", response.Manifest},
	}
	for _, section := range sections {
		if len(section.formats) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s formats:\n", section.label)
		fmt.Fprintln(out, formatTable(section.formats))
	}
}

func formatTable(formats []ytdlx.Format) string {
	headers := []string{"ID", "Quality", "Ext", "Codec", "Bitrate", "Size"}
	rows := make([][]string, 0, len(formats))
	for _, format := range formats {
		rows = append(rows, []string{
			format.ID,
			formatQuality(format),
			format.Ext,
			formatCodec(format),
			formatBitrate(format.Bitrate()),
			formatSize(format.Size()),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight})
}

func formatQuality(format ytdlx.Format) string {
	if format.Height > 0 {
		label := strconv.Itoa(format.Height) + "p"
		if format.FPS > 30 {
			label += strconv.Itoa(int(format.FPS))
		}
		return label
	}
	return format.Note
}

func formatCodec(format ytdlx.Format) string {
	if format.HasVideo() {
		return format.VCodec
	}
	return format.ACodec
}

func formatBitrate(kbps float64) string {
	if kbps <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0fk", kbps)
}

func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
