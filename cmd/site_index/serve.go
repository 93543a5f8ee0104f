package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-site-index/api"
	"github.com/gcbaptista/go-site-index/config"
	"github.com/gcbaptista/go-site-index/internal/builder"
	"github.com/gcbaptista/go-site-index/internal/engine"
	"github.com/gcbaptista/go-site-index/internal/jobs"
	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/internal/persistence"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search queries over HTTP from the exported artifact.",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(v)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openStore(ctx, settings)
		if err != nil {
			return err
		}
		defer closeStore()

		holder := engine.NewHolder(store, settings.Index)
		if fileStore, ok := store.(*persistence.FileStore); ok {
			if err := fileStore.Watch(ctx, holder.Reset); err != nil {
				logger.Warn("artifact changes will not be picked up automatically: %v", err)
			}
		}
		if _, err := holder.Get(ctx); err != nil {
			logger.Warn("%v; run 'site_index build' or POST /build", err)
		}

		manager := jobs.NewManager(1)
		manager.Start()
		defer manager.Stop()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery())
		if verbose {
			router.Use(gin.Logger())
		}
		api.SetupRoutes(router, holder, api.Options{
			Jobs: manager,
			Rebuild: func(ctx context.Context) (builder.Report, error) {
				return runBuild(ctx, settings, store)
			},
			Target: storeLocation(settings, store),
		})

		srv := &http.Server{
			Addr:              ":" + settings.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.Info("Starting server on port %s...", settings.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "port to listen on")
	cobra.CheckErr(v.BindPFlag("port", serveCmd.Flags().Lookup("port")))
}
