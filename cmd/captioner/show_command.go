package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"captioner/internal/assets"
	"captioner/internal/captions"
	"captioner/internal/transcript"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "show <youtube-url>",
		Short: "Print the cached transcript table for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			key, err := assets.VideoKey(args[0])
			if err != nil {
				return describeFailure(err)
			}
			audio := assets.NewCache(cfg.Paths.VideoDir).AudioPath(key)
			path := transcript.TablePath(audio)
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("no transcript cached for %s; run `captioner run %s --format table` first", key, args[0])
			}
			table, err := transcript.LoadTable(path)
			if err != nil {
				return describeFailure(err)
			}

			out := cmd.OutOrStdout()
			if plain || !isTerminalWriter(out) {
				return writeTSV(out, table)
			}
			title, _ := os.ReadFile(filepath.Join(filepath.Dir(audio), assets.TitleFile))
			if t := strings.TrimSpace(string(title)); t != "" {
				fmt.Fprintf(out, "%s (%s)\n", t, key)
			}
			fmt.Fprintln(out, renderUtterances(table))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print tab-separated values even on a terminal")
	return cmd
}

func renderUtterances(table []captions.Utterance) string {
	rows := make([][]string, 0, len(table))
	for i, u := range table {
		speaker := u.Speaker
		if speaker == "" {
			speaker = "-"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), u.StartTime, u.EndTime, speaker, u.Text})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Speaker", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		72,
	)
}

func writeTSV(w io.Writer, table []captions.Utterance) error {
	if _, err := fmt.Fprintln(w, "start_time\tend_time\tspeaker\ttext"); err != nil {
		return err
	}
	for _, u := range table {
		text := strings.ReplaceAll(u.Text, "\t", " ")
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.StartTime, u.EndTime, u.Speaker, text); err != nil {
			return err
		}
	}
	return nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
