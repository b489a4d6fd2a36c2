package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ytdlx"
	"ytdlx/internal/media/ffprobe"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Inspect a local media file with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(true, func(client *ytdlx.Client) error {
				tools, err := client.LocateTools(cmd.Context())
				if err != nil {
					return err
				}
				result, err := ffprobe.Inspect(cmd.Context(), tools.FFprobe.Path, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				printInspection(cmd, args[0], result)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the ffprobe result as JSON")
	return cmd
}

func printInspection(cmd *cobra.Command, path string, result ffprobe.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:     %s\n", path)
	fmt.Fprintf(out, "Format:   %s\n", result.Format.FormatName)
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(result.DurationSeconds()))
	fmt.Fprintf(out, "Size:     %s\n", formatSize(result.SizeBytes()))

	if len(result.Streams) == 0 {
		return
	}
	headers := []string{"#", "Type", "Codec", "Detail"}
	rows := make([][]string, 0, len(result.Streams))
	for _, stream := range result.Streams {
		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			stream.CodecType,
			stream.CodecName,
			streamDetail(stream),
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
}

func streamDetail(stream ffprobe.Stream) string {
	switch stream.CodecType {
	case "video":
		return fmt.Sprintf("%dx%d", stream.Width, stream.Height)
	case "audio":
		return fmt.Sprintf("%s Hz, %d ch", stream.SampleRate, stream.Channels)
	default:
		return ""
	}
}
