package main

import (
	"context"
	"fmt"

	"projecthub/microservices/progress-service/clients"
	"projecthub/microservices/progress-service/config"
	"projecthub/microservices/progress-service/interfaces"
	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
	"projecthub/microservices/progress-service/repositories"
	"projecthub/microservices/progress-service/services"
	"projecthub/microservices/progress-service/utils"
)

// app holds the wired components shared by every command.
type app struct {
	cfg          config.Config
	collaborator *clients.CollaboratorClient
	calculator   *services.ProgressAggregator
	registry     *services.SynchronizerRegistry
	activity     interfaces.ActivityStore
	closeStore   func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})

	breaker := clients.NewBreaker("collaborator", cfg.BreakerMaxFailures, cfg.BreakerTimeout)
	collaborator := clients.NewCollaboratorClient(cfg.CollaboratorURL, utils.NewHTTPClient(cfg.HTTPTimeout), breaker)
	calculator := services.NewProgressAggregator(collaborator, collaborator, cfg.SubtaskFetchConcurrency)

	a := &app{
		cfg:          cfg,
		collaborator: collaborator,
		calculator:   calculator,
		closeStore:   func(context.Context) error { return nil },
	}

	if cfg.MongoEnabled() {
		client, err := repositories.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("progress activity store: %w", err)
		}
		repo := repositories.NewMongoActivityRepository(client, cfg.MongoDBName, cfg.MongoCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logging.Logger.Warnf("Event ID: ACTIVITY_INDEX_FAILED, Description: %v", err)
		}
		a.activity = repo
		a.closeStore = repo.Close
		logging.Logger.Infof("Event ID: ACTIVITY_STORE_MONGO, Description: Progress activity stored in %s.%s", cfg.MongoDBName, cfg.MongoCollection)
	} else {
		a.activity = repositories.NewMemoryActivityRepository(0)
		logging.Logger.Info("Event ID: ACTIVITY_STORE_MEMORY, Description: MONGO_URI not set, progress activity kept in memory")
	}

	a.registry = services.NewSynchronizerRegistry(calculator, collaborator, a.activity, cfg.ProgressDebounce)
	return a, nil
}

// withCredentials attaches collaborator credentials for non-request callers such as the CLI.
func withCredentials(ctx context.Context, token, cookie string) context.Context {
	creds := clients.Credentials{Cookie: cookie}
	if token != "" {
		creds.Authorization = "Bearer " + token
	}
	return clients.WithForwardedAuth(ctx, creds)
}

func (a *app) close(ctx context.Context) {
	a.registry.Close()
	if err := a.closeStore(ctx); err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_STORE_CLOSE_FAILED, Description: %v", err)
	}
}

func (a *app) progress(ctx context.Context, projectID int64, push bool) (models.ProjectProgress, error) {
	project, err := a.collaborator.GetProject(ctx, projectID)
	if err != nil {
		return models.ProjectProgress{}, fmt.Errorf("failed to load project %d: %w", projectID, err)
	}
	if !push {
		report, err := a.calculator.ComputeProject(ctx, projectID)
		if err != nil {
			return models.ProjectProgress{}, err
		}
		return models.ProjectProgress{Report: report}, nil
	}
	synchronizer := a.registry.For(project.ID)
	synchronizer.ObserveRemote(project.Progress)
	report, err := synchronizer.Flush(ctx)
	if err != nil {
		return models.ProjectProgress{}, err
	}
	return models.ProjectProgress{Snapshot: synchronizer.Snapshot(), Report: report}, nil
}
