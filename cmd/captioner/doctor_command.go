package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"captioner/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries, directories and recognition credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var rows [][]string
			failed := 0
			for _, s := range preflight.CheckSystemDeps(cfg) {
				detail := s.Command
				if !s.Available {
					detail = s.Detail
					failed++
				}
				rows = append(rows, []string{s.Name, passFail(s.Available), detail})
			}
			for _, r := range preflight.RunAll(cmdContext(cmd), cfg) {
				if !r.Passed {
					failed++
				}
				rows = append(rows, []string{r.Name, passFail(r.Passed), r.Detail})
			}

			out := cmd.OutOrStdout()
			if isTerminalWriter(out) {
				fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil, 0))
			} else {
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
