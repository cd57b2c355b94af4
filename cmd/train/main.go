// Package main provides the entry point for the training CLI tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/config"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/logger"
	"github.com/yourusername/courtside-totals/internal/metrics"
	"github.com/yourusername/courtside-totals/internal/models"
	"github.com/yourusername/courtside-totals/internal/predictor"
	"github.com/yourusername/courtside-totals/internal/repository"
	"github.com/yourusername/courtside-totals/internal/trainer"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		season     = flag.Int("season", 0, "Season to train on (required)")
		reportPath = flag.String("report", "", "Override JSON report output path")
		activate   = flag.Bool("activate", true, "Mark the new artifacts as active")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	if *season == 0 {
		log.Fatal("A season is required, e.g. -season 2025")
	}

	ctx := context.Background()
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}

	result := runTraining(ctx, cfg, repos, *season, log)

	fmt.Print(trainer.GenerateConsoleReport(result.Report))

	persistArtifacts(ctx, cfg, repos, result, *activate, log)
	persistReport(ctx, cfg, repos, result.Report, *reportPath, log)
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func runTraining(ctx context.Context, cfg *config.Config, repos *repository.Repositories, season int, log *logrus.Logger) *trainer.Result {
	stats, err := repos.TeamStats.GetBySeason(ctx, season)
	if err != nil {
		log.Fatalf("Failed to load team stats: %v", err)
	}
	table, err := features.NewTableFrom(stats)
	if err != nil {
		log.Fatalf("Failed to build stats table: %v", err)
	}
	log.WithField("teams", table.Len()).Info("Stats table loaded")

	games, err := repos.Game.GetBySeason(ctx, season)
	if err != nil {
		log.Fatalf("Failed to load games: %v", err)
	}

	formula, err := predictor.NewFormula(predictor.FormulaConfig{
		LeagueAvgDefense: cfg.Model.LeagueAvgDefense,
		HomeCourtFactor:  cfg.Model.HomeCourtFactor,
	})
	if err != nil {
		log.Fatalf("Invalid formula config: %v", err)
	}
	extractor, err := features.NewExtractor(table, formula)
	if err != nil {
		log.Fatalf("Failed to create extractor: %v", err)
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
		log,
	)
	if err != nil {
		log.Fatalf("Failed to create trainer: %v", err)
	}

	start := time.Now()
	result, err := tr.Train(games)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	metrics.InitRegistry()
	metrics.RecordTrainingRun(time.Since(start).Seconds(), result.Report.GamesUsed, result.Report.GamesSkipped)
	for model, mae := range result.Report.MAEKFold {
		metrics.UpdateModelMAE(model, "kfold", mae)
	}
	for model, mae := range result.Report.MAEChronological {
		metrics.UpdateModelMAE(model, "chronological", mae)
	}

	return result
}

func persistArtifacts(ctx context.Context, cfg *config.Config, repos *repository.Repositories, result *trainer.Result, activate bool, log *logrus.Logger) {
	version := time.Now().UTC().Format("20060102T150405")
	modelLog := logger.NewModelLogger(log)

	metricsJSON, err := json.Marshal(result.Report)
	if err != nil {
		log.Fatalf("Failed to marshal report metrics: %v", err)
	}

	save := func(name string, stateJSON func() ([]byte, error), saveFile func(string) error) {
		payload, err := stateJSON()
		if err != nil {
			log.Fatalf("Failed to serialize %s state: %v", name, err)
		}

		path := filepath.Join(cfg.Training.ArtifactDir, fmt.Sprintf("%s_%s.json", name, version))
		if err := saveFile(path); err != nil {
			log.Fatalf("Failed to write %s artifact: %v", name, err)
		}

		artifact := &models.ModelArtifact{
			ID:            uuid.New(),
			Name:          name,
			Version:       version,
			SchemaVersion: features.SchemaVersion,
			Payload:       payload,
			Metrics:       metricsJSON,
			TrainedAt:     result.Report.TrainedAt,
			Active:        false,
		}
		if err := repos.Model.Create(ctx, artifact); err != nil {
			log.Fatalf("Failed to persist %s artifact: %v", name, err)
		}
		if activate {
			if err := repos.Model.SetActive(ctx, artifact.ID); err != nil {
				log.Fatalf("Failed to activate %s artifact: %v", name, err)
			}
		}
		modelLog.LogArtifactSaved(name, version, features.SchemaVersion, path)
	}

	save(models.ModelCalibrated, result.Calibrated.StateJSON, result.Calibrated.SaveState)
	save(models.ModelLearned, result.Learned.StateJSON, result.Learned.SaveState)
}

func persistReport(ctx context.Context, cfg *config.Config, repos *repository.Repositories, report trainer.EvaluationReport, override string, log *logrus.Logger) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		log.Fatalf("Failed to marshal report: %v", err)
	}
	if err := repos.Evaluation.Insert(ctx, reportJSON); err != nil {
		log.Fatalf("Failed to store evaluation report: %v", err)
	}

	path := cfg.Training.ReportPath
	if override != "" {
		path = override
	}
	if path != "" {
		if err := trainer.WriteJSONReport(report, path); err != nil {
			log.Fatalf("Failed to write report file: %v", err)
		}
	}
}
