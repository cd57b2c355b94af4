// Package main provides the entry point for the prediction CLI tool.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/config"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/features"
	"github.com/yourusername/courtside-totals/internal/logger"
	"github.com/yourusername/courtside-totals/internal/metrics"
	"github.com/yourusername/courtside-totals/internal/models"
	"github.com/yourusername/courtside-totals/internal/predictor"
	"github.com/yourusername/courtside-totals/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		homeTeam   = flag.String("home", "", "Home team name (required)")
		awayTeam   = flag.String("away", "", "Away team name (required)")
		season     = flag.Int("season", 0, "Season (required)")
		asJSON     = flag.Bool("json", false, "Print the prediction as JSON")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	matchup := models.Matchup{HomeTeam: *homeTeam, AwayTeam: *awayTeam, Season: *season}
	if err := matchup.Validate(); err != nil {
		log.Fatalf("Usage: predict -home <team> -away <team> -season <year>: %v", err)
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

	metrics.InitRegistry()
	ensemble := buildEnsemble(ctx, cfg, repos, matchup.Season, log)

	start := time.Now()
	pred, err := ensemble.Combine(matchup.HomeTeam, matchup.AwayTeam, matchup.Season)
	if err != nil {
		if errors.Is(err, models.ErrMissingStats) {
			metrics.RecordPredictionError("missing_stats")
			log.Fatalf("No ratings for matchup: %v", err)
		}
		metrics.RecordPredictionError("combine_failed")
		log.Fatalf("Prediction failed: %v", err)
	}
	metrics.RecordPrediction(time.Since(start).Seconds())

	logger.NewModelLogger(log).LogPrediction(matchup.HomeTeam, matchup.AwayTeam, matchup.Season, pred.Total, len(pred.Warnings))
	printPrediction(pred, matchup.HomeTeam, matchup.AwayTeam, *asJSON)
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

func buildEnsemble(ctx context.Context, cfg *config.Config, repos *repository.Repositories, season int, log *logrus.Logger) *predictor.CachedEnsemble {
	stats, err := repos.TeamStats.GetBySeason(ctx, season)
	if err != nil {
		log.Fatalf("Failed to load team stats: %v", err)
	}
	table, err := features.NewTableFrom(stats)
	if err != nil {
		log.Fatalf("Failed to build stats table: %v", err)
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

	calibrated, calVersion := loadCalibrated(ctx, cfg, repos, extractor, log)
	learned, learnedVersion := loadLearned(ctx, cfg, repos, extractor, log)

	weights := predictor.Weights{
		Formula:    cfg.Model.Weights.Formula,
		Calibrated: cfg.Model.Weights.Calibrated,
		Learned:    cfg.Model.Weights.Learned,
	}
	ensemble, err := predictor.NewEnsemble(table, formula, calibrated, learned, weights, cfg.Model.RenormalizeOnPartial, log)
	if err != nil {
		log.Fatalf("Failed to create ensemble: %v", err)
	}
	cached, err := predictor.NewCachedEnsemble(ensemble, calVersion+"/"+learnedVersion, cfg.CacheTTL())
	if err != nil {
		log.Fatalf("Failed to create prediction cache: %v", err)
	}
	return cached
}

// loadCalibrated restores the active calibrated model, or leaves it unfitted
// so the ensemble falls back to its partial mode.
func loadCalibrated(ctx context.Context, cfg *config.Config, repos *repository.Repositories, extractor *features.Extractor, log *logrus.Logger) (*predictor.Calibrated, string) {
	calibrated, err := predictor.NewCalibrated(predictor.CalibratedConfig{
		RidgeLambda: cfg.Model.Calibrated.RidgeLambda,
		FitResidual: cfg.Model.Calibrated.FitResidual,
	}, extractor)
	if err != nil {
		log.Fatalf("Invalid calibrated config: %v", err)
	}

	artifact, err := repos.Model.GetActive(ctx, models.ModelCalibrated)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("No active calibrated model, predicting without it")
			return calibrated, "none"
		}
		log.Fatalf("Failed to load calibrated artifact: %v", err)
	}
	if err := calibrated.RestoreState(artifact.Payload); err != nil {
		log.Fatalf("Failed to restore calibrated model %s: %v", artifact.Version, err)
	}
	log.WithField("version", artifact.Version).Info("Calibrated model loaded")
	return calibrated, artifact.Version
}

func loadLearned(ctx context.Context, cfg *config.Config, repos *repository.Repositories, extractor *features.Extractor, log *logrus.Logger) (*predictor.Learned, string) {
	learned, err := predictor.NewLearned(predictor.LearnedConfig{
		Algorithm:      cfg.Model.Learned.Algorithm,
		NumTrees:       cfg.Model.Learned.NumTrees,
		MaxDepth:       cfg.Model.Learned.MaxDepth,
		MinLeaf:        cfg.Model.Learned.MinLeaf,
		LearningRate:   cfg.Model.Learned.LearningRate,
		SubsampleRatio: cfg.Model.Learned.SubsampleRatio,
		Seed:           cfg.Model.Learned.Seed,
	}, extractor)
	if err != nil {
		log.Fatalf("Invalid learned config: %v", err)
	}

	artifact, err := repos.Model.GetActive(ctx, models.ModelLearned)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("No active learned model, predicting without it")
			return learned, "none"
		}
		log.Fatalf("Failed to load learned artifact: %v", err)
	}
	if err := learned.RestoreState(artifact.Payload); err != nil {
		log.Fatalf("Failed to restore learned model %s: %v", artifact.Version, err)
	}
	log.WithField("version", artifact.Version).Info("Learned model loaded")
	return learned, artifact.Version
}

func printPrediction(pred *models.Prediction, homeTeam, awayTeam string, asJSON bool) {
	if asJSON {
		out, err := json.MarshalIndent(pred, "", "  ")
		if err != nil {
			logrus.Fatalf("Failed to marshal prediction: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("\n=== %s vs %s ===\n", homeTeam, awayTeam)
	fmt.Printf("Predicted Total: %.1f\n", pred.Total)
	fmt.Printf("  Home Points:   %.1f\n", pred.HomePoints)
	fmt.Printf("  Away Points:   %.1f\n", pred.AwayPoints)
	fmt.Printf("  Home Margin:   %+.1f\n", pred.Margin())
	fmt.Println("Model Breakdown:")
	for _, name := range []string{models.ModelFormula, models.ModelCalibrated, models.ModelLearned} {
		if v, ok := pred.ModelBreakdown[name]; ok {
			fmt.Printf("  %-10s %.1f (weight %.2f)\n", name, v, pred.WeightsUsed[name])
		}
	}
	for _, w := range pred.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
}
