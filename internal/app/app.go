package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kacemyassine/atlantis-league/external/github"
	"github.com/kacemyassine/atlantis-league/internal/config"
	"github.com/kacemyassine/atlantis-league/internal/infrastructure/storage"
	"github.com/kacemyassine/atlantis-league/internal/interfaces/httpapi"
	idgen "github.com/kacemyassine/atlantis-league/internal/platform/id"
	"github.com/kacemyassine/atlantis-league/internal/platform/logging"
	"github.com/kacemyassine/atlantis-league/internal/platform/resilience"
	"github.com/kacemyassine/atlantis-league/internal/usecase"
)

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store := storage.NewFileStore(cfg.LeagueDataFile, logger)
	engine, err := usecase.NewLeagueService(ctx, store, idgen.NewRandomGenerator(), cfg.StrictValidation, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap league engine: %w", err)
	}
	standingsSvc := usecase.NewStandingsService(engine)

	githubClient := github.NewClient(github.ClientConfig{
		APIBaseURL: cfg.GitHubAPIBaseURL,
		RawBaseURL: cfg.GitHubRawBaseURL,
		Token:      cfg.GitHubToken,
		Timeout:    cfg.GitHubTimeout,
		MaxRetries: cfg.GitHubMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GitHubCircuitEnabled,
			FailureThreshold: cfg.GitHubCircuitFailureCount,
			OpenTimeout:      cfg.GitHubCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GitHubCircuitHalfOpenMaxReq,
		},
	})
	syncSvc := usecase.NewSyncService(engine, githubClient, usecase.RemoteFileRef{
		Owner:  cfg.GitHubOwner,
		Repo:   cfg.GitHubRepo,
		Path:   cfg.GitHubPath,
		Branch: cfg.GitHubBranch,
	}, logger)

	handler := httpapi.NewHandler(engine, standingsSvc, syncSvc, githubClient, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminCode)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
