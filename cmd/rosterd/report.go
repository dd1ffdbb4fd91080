package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/llm"
	"github.com/joseph-ayodele/roster-reports/internal/master"
	"github.com/joseph-ayodele/roster-reports/internal/report"
)

type reportOptions struct {
	masterPath  string
	extractions string
	format      string
	out         string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a report from previously extracted rows, without calling the AI service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.Sugar()

			format, ok := constants.ParseReportFormat(opts.format)
			if !ok {
				return fmt.Errorf("unsupported format %q", opts.format)
			}
			raw, err := readInput(cmd.InOrStdin(), opts.extractions)
			if err != nil {
				return err
			}
			rows, _, err := llm.ParseRosterReply(string(raw), log)
			if err != nil {
				return fmt.Errorf("parse %s: %w", opts.extractions, err)
			}

			path := opts.masterPath
			if path == "" {
				path = cfg.Master.Path
			}
			rc, name, err := master.FileSource{Path: path}.Open()
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			svc := report.NewService(master.Options{Sheet: cfg.Master.Sheet}, log)
			doc, err := svc.Generate(cmd.Context(), rc, name, rows, format)
			if err != nil {
				return err
			}

			out := opts.out
			if out == "" {
				out = format.Filename()
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Infow("rosterd.report.written", "path", out, "bytes", len(doc))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.masterPath, "master", "", "Master dataset (defaults to MASTER_PATH)")
	cmd.Flags().StringVar(&opts.extractions, "extractions", "-", `JSON list of {"clock","name"} rows, "-" for stdin`)
	cmd.Flags().StringVar(&opts.format, "format", string(constants.FormatPDF), "pdf or xlsx")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", `Output file, "-" for stdout (default Generated_Report.<format>)`)
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
