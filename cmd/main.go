package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httprouter "github.com/dmas-wbpl/sonicwall/internal/api/http/router"
	"github.com/dmas-wbpl/sonicwall/internal/config"
	"github.com/dmas-wbpl/sonicwall/internal/logger"
	"github.com/dmas-wbpl/sonicwall/internal/model"
	"github.com/dmas-wbpl/sonicwall/internal/repository/postgres"
	"github.com/dmas-wbpl/sonicwall/internal/server"
	"github.com/dmas-wbpl/sonicwall/internal/service"
	"github.com/dmas-wbpl/sonicwall/internal/upstream/sonicwall"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	authService := service.NewAuth(userRepo, sessionRepo, logger)
	reportService := service.NewReport(func() service.FirewallClient {
		return sonicwall.New(cfg.SonicWall, logger)
	}, logger)

	r := httprouter.New(authService, reportService, logger)
	httpServer := server.NewHTTPServer(r, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
