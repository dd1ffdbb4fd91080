package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/roster-reports/internal/ingest"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

type extractOptions struct {
	out        string
	skipHidden bool
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract IMAGE_OR_DIR...",
		Short: "Extract clock/name rows from roster images and print them as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.Sugar()

			uploads, err := ingest.CollectPaths(args, opts.skipHidden)
			if err != nil {
				return err
			}
			if len(uploads) == 0 {
				return fmt.Errorf("no images found in %v", args)
			}

			uc, err := newIngest(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			batch := uc.Process(cmd.Context(), uploads)
			for _, r := range batch.Results {
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Filename, r.Err)
				}
			}

			b, err := json.MarshalIndent(mergedRows(batch.Rows()), "", "  ")
			if err != nil {
				return err
			}
			b = append(b, '\n')
			if opts.out == "" || opts.out == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return os.WriteFile(opts.out, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "-", `Output file, "-" for stdout`)
	cmd.Flags().BoolVar(&opts.skipHidden, "skip-hidden", true, "Skip hidden files and directories")
	return cmd
}

// mergedRows normalizes and deduplicates extracted rows, last occurrence winning.
func mergedRows(rows []roster.RawExtraction) []roster.Record {
	merged, _ := roster.Merge(rows)
	return merged.Records()
}
