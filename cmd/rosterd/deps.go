package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/imageprep"
	"github.com/joseph-ayodele/roster-reports/internal/ingest"
	"github.com/joseph-ayodele/roster-reports/internal/llm"
	"github.com/joseph-ayodele/roster-reports/internal/llm/gemini"
	"github.com/joseph-ayodele/roster-reports/internal/llm/openai"
)

func newExtractor(ctx context.Context, cfg *common.Config, log *zap.SugaredLogger) (llm.RosterExtractor, error) {
	if err := cfg.ValidateExtract(); err != nil {
		return nil, err
	}
	if cfg.Extract.Provider == common.ProviderOpenAI {
		return openai.FromConfig(cfg.Extract, log), nil
	}
	return gemini.FromConfig(ctx, cfg.Extract, log)
}

func newIngest(ctx context.Context, cfg *common.Config, log *zap.SugaredLogger) (*ingest.Usecase, error) {
	ex, err := newExtractor(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return ingest.NewUsecase(ex, imageprep.NewPreparer(cfg.Image, log), ingest.Options{
		Timeout:       cfg.Extract.Timeout,
		MaxImageBytes: int64(cfg.Server.MaxUploadMB) << 20,
	}, log), nil
}
