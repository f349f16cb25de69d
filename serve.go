package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"projecthub/microservices/progress-service/handlers"
	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/middleware"
	"projecthub/microservices/progress-service/services"
	"projecthub/microservices/progress-service/services/commands"
	"projecthub/microservices/progress-service/services/queries"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	visibility := services.NewVisibilityFilter(a.cfg.AdminRole)
	cmds := &commands.Dependencies{
		Svc:         a.collaborator,
		Progress:    a.registry,
		Permissions: services.NewPermissions(visibility),
	}
	qs := &queries.Dependencies{
		Svc:         a.collaborator,
		Visibility:  visibility,
		Calculator:  a.calculator,
		Progress:    a.registry,
		Activity:    a.activity,
		Concurrency: a.cfg.SubtaskFetchConcurrency,
	}
	router, err := handlers.NewRouter(handlers.NewHandler(cmds, qs, a.registry), handlers.RouterConfig{
		CollaboratorURL: a.cfg.CollaboratorURL,
		CORSOrigin:      a.cfg.CORSOrigin,
		Auth:            middleware.NewAuthenticator(a.cfg.JWTSecret, a.collaborator),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      router,
		Addr:         a.cfg.Addr(),
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("Event ID: SERVICE_START, Description: Progress service running on %s, collaborator %s", srv.Addr, a.cfg.CollaboratorURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.close(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Logger.Info("Event ID: SERVICE_STOP, Description: Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVICE_SHUTDOWN_FAILED, Description: %v", err)
	}
	a.close(shutdownCtx)
	return nil
}
