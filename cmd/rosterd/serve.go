package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/roster-reports/internal/master"
	"github.com/joseph-ayodele/roster-reports/internal/report"
	"github.com/joseph-ayodele/roster-reports/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload API (and the gRPC health listener when GRPC_HEALTH_ADDR is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.Sugar()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			images, err := newIngest(ctx, cfg, log)
			if err != nil {
				return err
			}
			srv := server.New(cfg.Server, server.Deps{
				Images:  images,
				Reports: report.NewService(master.Options{Sheet: cfg.Master.Sheet}, log),
				Masters: master.FileSource{Path: cfg.Master.Path},
			}, log)

			log.Infow("rosterd.start",
				"addr", cfg.Server.Addr,
				"grpc_health_addr", cfg.Server.GRPCHealthAddr,
				"provider", cfg.Extract.Provider,
				"master_path", cfg.Master.Path,
			)
			return srv.Run(ctx)
		},
	}
}
