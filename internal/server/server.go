// Package server is the HTTP surface of the roster report service, plus an optional gRPC
// health listener.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/internal/common"
)

// Deps are the collaborators the handlers call.
type Deps struct {
	Images  ImageProcessor
	Reports ReportGenerator
	Masters MasterSource
}

type Server struct {
	cfg    common.ServerConfig
	engine *gin.Engine
	log    *zap.SugaredLogger
}

func New(cfg common.ServerConfig, deps Deps, log *zap.SugaredLogger) *Server {
	log = common.OrNop(log)
	maxBytes := int64(cfg.MaxUploadMB) << 20

	r := gin.New()
	r.MaxMultipartMemory = maxBytes
	r.Use(gin.Recovery(), requestID(), requestLogger(log), cors.New(corsConfig(cfg.AllowOrigins)))

	h := &uploadHandler{
		images:   deps.Images,
		reports:  deps.Reports,
		masters:  deps.Masters,
		maxBytes: maxBytes,
		log:      log,
	}
	api := r.Group("/api")
	api.GET("/health", healthCheck)
	api.POST("/upload-images", h.upload)

	return &Server{cfg: cfg, engine: r, log: log}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", headerRequestID},
		ExposeHeaders: []string{"Content-Disposition", "Content-Length", headerRequestID, headerImagesFailed},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

// Run listens on the configured addresses and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return common.WrapError(err, "listen http")
	}
	var grpcLis net.Listener
	if s.cfg.GRPCHealthAddr != "" {
		if grpcLis, err = net.Listen("tcp", s.cfg.GRPCHealthAddr); err != nil {
			_ = httpLis.Close()
			return common.WrapError(err, "listen grpc health")
		}
	}
	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve serves HTTP on httpLis and, when grpcLis is non-nil, gRPC health on grpcLis.
// It returns after both have shut down.
func (s *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 2)

	go func() {
		s.log.Infow("http.serving", "addr", httpLis.Addr().String())
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- common.WrapError(err, "http serve")
		}
	}()

	var hs *HealthServer
	grpcDone := make(chan struct{})
	if grpcLis != nil {
		hs = NewHealthServer(s.log)
		go func() {
			defer close(grpcDone)
			if err := hs.Serve(grpcLis); err != nil {
				errCh <- common.WrapError(err, "grpc serve")
			}
		}()
	} else {
		close(grpcDone)
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.log.Infow("server.shutdown", "reason", ctx.Err())
	case runErr = <-errCh:
		s.log.Errorw("server.failed", "error", runErr)
	}

	shutdownCtx, cancel := common.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if hs != nil {
		hs.Stop()
	}
	<-grpcDone
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = common.WrapError(err, "http shutdown")
	}
	s.log.Infow("server.stopped")
	return runErr
}
