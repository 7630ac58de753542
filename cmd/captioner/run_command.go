package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"captioner/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "run <youtube-url>",
		Short: "Download, transcribe and export one video",
		Long: "Fetch the audio for a YouTube URL, transcribe it, and print the path of the\n" +
			"requested artifact. Cached audio and transcripts are reused.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := pipeline.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			path, err := p.Run(cmd.Context(), args[0], parsed)
			if err != nil {
				return describeFailure(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(pipeline.FormatSubtitle), "Output format: subtitle|table|records (or srt|csv|json)")
	return cmd
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <youtube-url>",
		Short: "Download audio only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fetcher, err := ctx.fetcher()
			if err != nil {
				return err
			}
			rec, err := fetcher.Fetch(cmd.Context(), args[0], cfg.Paths.VideoDir)
			if err != nil {
				return describeFailure(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key:   %s\n", rec.Key)
			fmt.Fprintf(out, "Title: %s\n", rec.Title)
			fmt.Fprintf(out, "Audio: %s\n", rec.AudioPath)
			return nil
		},
	}
}
