// Package main provides the entry point for the long-running service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/config"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/datasource"
	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/logger"
	"github.com/yourusername/courtside-totals/internal/metrics"
	"github.com/yourusername/courtside-totals/internal/models"
	"github.com/yourusername/courtside-totals/internal/predictor"
	"github.com/yourusername/courtside-totals/internal/repository"
	"github.com/yourusername/courtside-totals/internal/scheduler"
	"github.com/yourusername/courtside-totals/internal/service"
	"github.com/yourusername/courtside-totals/internal/trainer"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		season     = flag.Int("season", 0, "Season to refresh and retrain on (required)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			stdlog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			stdlog.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Courtside Totals service starting")

	if *season == 0 {
		appLog.Fatal("A season is required, e.g. -season 2025")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Ratings source and ingestion
	sourceLogger := stdlog.New(os.Stdout, "ratings-api: ", stdlog.LstdFlags)
	source := datasource.NewRatingsAPI(&cfg.Ratings, sourceLogger)
	defer source.Close()

	ingestion, err := service.NewIngestionService(source, repos.TeamStats, repos.Game, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create ingestion service")
	}

	// Metrics endpoint
	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				appLog.WithError(err).Error("Failed to shut down metrics server")
			}
		}()
	}

	// Periodic jobs
	sched := scheduler.NewScheduler(ingestion, appLog)
	if cfg.Schedule.RatingsRefresh != "" {
		if err := sched.ScheduleRatingsRefresh(cfg.Schedule.RatingsRefresh, *season); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule ratings refresh")
		}
	}
	if cfg.Schedule.Retraining != "" {
		retrain := retrainJob(cfg, repos, *season, appLog)
		if err := sched.ScheduleRetraining(cfg.Schedule.Retraining, retrain); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule retraining")
		}
	}
	sched.Start()
	defer sched.Stop()

	appLog.WithFields(logrus.Fields{
		"season":          *season,
		"ratings_refresh": cfg.Schedule.RatingsRefresh,
		"retraining":      cfg.Schedule.Retraining,
	}).Info("Service is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")
}

// retrainJob builds a retraining closure over the repositories so the
// scheduler stays free of model dependencies.
func retrainJob(cfg *config.Config, repos *repository.Repositories, season int, appLog *logrus.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		stats, err := repos.TeamStats.GetBySeason(ctx, season)
		if err != nil {
			return fmt.Errorf("failed to load team stats: %w", err)
		}
		table, err := features.NewTableFrom(stats)
		if err != nil {
			return fmt.Errorf("failed to build stats table: %w", err)
		}
		games, err := repos.Game.GetBySeason(ctx, season)
		if err != nil {
			return fmt.Errorf("failed to load games: %w", err)
		}

		formula, err := predictor.NewFormula(predictor.FormulaConfig{
			LeagueAvgDefense: cfg.Model.LeagueAvgDefense,
			HomeCourtFactor:  cfg.Model.HomeCourtFactor,
		})
		if err != nil {
			return err
		}
		extractor, err := features.NewExtractor(table, formula)
		if err != nil {
			return err
		}

		tr, err := trainer.New(
			trainer.Config{
				KFolds:          cfg.Training.KFolds,
				MinGamesPerFold: cfg.Training.MinGamesPerFold,
				Seed:            cfg.Model.Learned.Seed,
			},
			extractor,
			predictor.CalibratedConfig{
				RidgeLambda: cfg.Model.Calibrated.RidgeLambda,
				FitResidual: cfg.Model.Calibrated.FitResidual,
			},
			predictor.LearnedConfig{
				Algorithm:      cfg.Model.Learned.Algorithm,
				NumTrees:       cfg.Model.Learned.NumTrees,
				MaxDepth:       cfg.Model.Learned.MaxDepth,
				MinLeaf:        cfg.Model.Learned.MinLeaf,
				LearningRate:   cfg.Model.Learned.LearningRate,
				SubsampleRatio: cfg.Model.Learned.SubsampleRatio,
				Seed:           cfg.Model.Learned.Seed,
			},
			predictor.Weights{
				Formula:    cfg.Model.Weights.Formula,
				Calibrated: cfg.Model.Weights.Calibrated,
				Learned:    cfg.Model.Weights.Learned,
			},
			appLog,
		)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := tr.Train(games)
		if err != nil {
			return fmt.Errorf("retraining failed: %w", err)
		}
		metrics.RecordTrainingRun(time.Since(start).Seconds(), result.Report.GamesUsed, result.Report.GamesSkipped)
		for model, mae := range result.Report.MAEKFold {
			metrics.UpdateModelMAE(model, "kfold", mae)
		}
		for model, mae := range result.Report.MAEChronological {
			metrics.UpdateModelMAE(model, "chronological", mae)
		}

		return storeResult(ctx, cfg, repos, result)
	}
}

func storeResult(ctx context.Context, cfg *config.Config, repos *repository.Repositories, result *trainer.Result) error {
	version := time.Now().UTC().Format("20060102T150405")
	metricsJSON, err := json.Marshal(result.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	save := func(name string, stateJSON func() ([]byte, error), saveFile func(string) error) error {
		payload, err := stateJSON()
		if err != nil {
			return fmt.Errorf("failed to serialize %s state: %w", name, err)
		}
		path := filepath.Join(cfg.Training.ArtifactDir, fmt.Sprintf("%s_%s.json", name, version))
		if err := saveFile(path); err != nil {
			return fmt.Errorf("failed to write %s artifact: %w", name, err)
		}
		artifact := &models.ModelArtifact{
			ID:            uuid.New(),
			Name:          name,
			Version:       version,
			SchemaVersion: features.SchemaVersion,
			Payload:       payload,
			Metrics:       metricsJSON,
			TrainedAt:     result.Report.TrainedAt,
		}
		if err := repos.Model.Create(ctx, artifact); err != nil {
			return fmt.Errorf("failed to persist %s artifact: %w", name, err)
		}
		return repos.Model.SetActive(ctx, artifact.ID)
	}

	if err := save(models.ModelCalibrated, result.Calibrated.StateJSON, result.Calibrated.SaveState); err != nil {
		return err
	}
	if err := save(models.ModelLearned, result.Learned.StateJSON, result.Learned.SaveState); err != nil {
		return err
	}
	return repos.Evaluation.Insert(ctx, metricsJSON)
}
