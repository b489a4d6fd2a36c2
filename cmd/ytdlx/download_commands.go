package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ytdlx"
	"ytdlx/internal/ffmpeg"
)

type downloadFlags struct {
	lowest      bool
	bitrate     int
	resolution  string
	container   string
	outputDir   string
	filename    string
	audioFilter string
	videoFilter string
	toStdout    bool
}

func (f *downloadFlags) register(cmd *cobra.Command, audio, video bool) {
	cmd.Flags().BoolVar(&f.lowest, "lowest", false, "Select the smallest stream instead of the best")
	cmd.Flags().StringVar(&f.container, "container", "", "Output container (overrides configuration)")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Destination directory (overrides configuration)")
	cmd.Flags().StringVar(&f.filename, "filename", "", "Output file name without extension")
	cmd.Flags().BoolVar(&f.toStdout, "stdout", false, "Write the muxed media to standard output")
	if audio {
		cmd.Flags().IntVar(&f.bitrate, "bitrate", 0, "Audio bitrate cap in kbps (selects the custom quality path)")
		cmd.Flags().StringVar(&f.audioFilter, "audio-filter", "", "Audio filter preset (bassboost, nightcore, vaporwave, ...)")
	}
	if video {
		cmd.Flags().StringVarP(&f.resolution, "resolution", "r", "", "Exact video resolution such as 720p (selects the custom quality path)")
		cmd.Flags().StringVar(&f.videoFilter, "video-filter", "", "Video filter preset (grayscale, invert, rotate90, ...)")
	}
}

func (f *downloadFlags) options(query string) ytdlx.Options {
	opts := ytdlx.Options{
		Query:            query,
		OutputDir:        f.outputDir,
		Filename:         f.filename,
		Container:        f.container,
		AudioBitrateKbps: f.bitrate,
		Resolution:       f.resolution,
		AudioFilter:      f.audioFilter,
		VideoFilter:      f.videoFilter,
	}
	if f.toStdout {
		opts.Stream = os.Stdout
	}
	return opts
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "audio <url-or-query>",
		Short: "Download the audio track of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(flags.toStdout, func(client *ytdlx.Client) error {
				opts := flags.options(args[0])
				var result *ytdlx.Result
				var err error
				switch {
				case flags.bitrate > 0:
					result, err = client.AudioCustom(cmd.Context(), opts)
				case flags.lowest:
					result, err = client.AudioLowest(cmd.Context(), opts)
				default:
					result, err = client.AudioHighest(cmd.Context(), opts)
				}
				if err != nil {
					return err
				}
				printResult(cmd, result)
				return nil
			})
		},
	}

	flags.register(cmd, true, false)
	return cmd
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "video <url-or-query>",
		Short: "Download the video track without audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(flags.toStdout, func(client *ytdlx.Client) error {
				opts := flags.options(args[0])
				var result *ytdlx.Result
				var err error
				switch {
				case flags.resolution != "":
					result, err = client.VideoCustom(cmd.Context(), opts)
				case flags.lowest:
					result, err = client.VideoLowest(cmd.Context(), opts)
				default:
					result, err = client.VideoHighest(cmd.Context(), opts)
				}
				if err != nil {
					return err
				}
				printResult(cmd, result)
				return nil
			})
		},
	}

	flags.register(cmd, false, true)
	return cmd
}

func newAudioVideoCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:     "audiovideo <url-or-query>",
		Aliases: []string{"av"},
		Short:   "Download video merged with its best matching audio",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(flags.toStdout, func(client *ytdlx.Client) error {
				opts := flags.options(args[0])
				var result *ytdlx.Result
				var err error
				switch {
				case flags.resolution != "":
					result, err = client.AudioVideoCustom(cmd.Context(), opts)
				case flags.lowest:
					result, err = client.AudioVideoLowest(cmd.Context(), opts)
				default:
					result, err = client.AudioVideoHighest(cmd.Context(), opts)
				}
				if err != nil {
					return err
				}
				printResult(cmd, result)
				return nil
			})
		},
	}

	flags.register(cmd, true, true)
	return cmd
}

func newFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "filters",
		Short:       "List the available audio and video filter presets",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Audio filters:")
			for _, name := range ffmpeg.AudioFilterNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintln(out, "Video filters:")
			for _, name := range ffmpeg.VideoFilterNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}

// printResult writes the summary to stderr when the media went to stdout.
func printResult(cmd *cobra.Command, result *ytdlx.Result) {
	out := cmd.OutOrStdout()
	if result.Streamed {
		out = cmd.ErrOrStderr()
		fmt.Fprintf(out, "Streamed %q (%s, %s) in %s\n",
			result.Title, result.FormatNote, result.Container, roundElapsed(result.Elapsed))
		return
	}
	fmt.Fprintf(out, "Saved %s (%s, %s) in %s\n",
		result.OutputPath, result.FormatNote, humanize.IBytes(uint64(result.SizeBytes)), roundElapsed(result.Elapsed))
}

func roundElapsed(elapsed time.Duration) time.Duration {
	return elapsed.Round(100 * time.Millisecond)
}
