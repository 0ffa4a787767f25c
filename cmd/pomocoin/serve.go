package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/pomocoin/internal/activity"
	"github.com/verte-zerg/pomocoin/internal/api"
	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/logger"
	"github.com/verte-zerg/pomocoin/internal/runner"
	"github.com/verte-zerg/pomocoin/internal/timer"
)

const shutdownTimeout = 5 * time.Second

var (
	serveAddr        string
	serveCORSOrigins []string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the timer headless behind an HTTP control API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	addTimerFlags(cmd)
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "allowed CORS origin (repeatable, * for any)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadTimerConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)
	applyStringsConfig(cmd, "cors-origin", &serveCORSOrigins, fileCfg.Serve.CORSOrigins)

	if err := initLogger(true); err != nil {
		return err
	}
	defer closeLogger()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	oracle := bonus.NewOracle()
	session := timer.New(st, oracle, sessionOptions())
	r := runner.New(session)
	watcher := activity.NewWatcher(timerActivityFile, oracle)

	if !logDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}).Writer()
	handler := api.NewHandler(r, st, oracle)
	server := &http.Server{
		Addr:              serveAddr,
		Handler:           api.NewRouter(handler, serveCORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Run(ctx)
	})
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		if timerPreset == defaultPreset {
			return nil
		}
		if _, err := r.Do(ctx, func(s *timer.Session) tea.Cmd { return s.LoadPreset(int64(timerPreset)) }); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to load preset: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("control API listening", "addr", serveAddr, "activityFile", timerActivityFile)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
