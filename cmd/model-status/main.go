package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yourusername/courtside-totals/internal/config"
	"github.com/yourusername/courtside-totals/internal/database"
	"github.com/yourusername/courtside-totals/internal/models"
	"github.com/yourusername/courtside-totals/internal/repository"
	"github.com/yourusername/courtside-totals/internal/trainer"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(listCmd)
}

var rootCmd = &cobra.Command{
	Use:   "model-status",
	Short: "Check trained model and evaluation status",
	Long:  `Displays the active model artifacts and the latest cross-validation report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		displayStatus(cmd.Context())
	},
}

var listCmd = &cobra.Command{
	Use:   "list [model]",
	Short: "List stored versions of a model",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		listVersions(cmd.Context(), args[0])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("COURTSIDE")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

func setupDependencies(ctx context.Context) error {
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func displayStatus(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	fmt.Println("\n=== Model Status ===")

	for _, name := range []string{models.ModelCalibrated, models.ModelLearned} {
		fmt.Printf("\n%s:\n", name)
		artifact, err := repos.Model.GetActive(ctx, name)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				fmt.Println("  no active version")
				continue
			}
			fmt.Printf("  error: %v\n", err)
			continue
		}
		fmt.Printf("  Version:        %s\n", artifact.Version)
		fmt.Printf("  Schema:         %s\n", artifact.SchemaVersion)
		fmt.Printf("  Trained At:     %s\n", artifact.TrainedAt.Format(time.RFC3339))
		if used, err := artifact.GetMetric("games_used"); err == nil && used != nil {
			if n, ok := used.(float64); ok {
				fmt.Printf("  Games Used:     %d\n", int(n))
			}
		}
	}

	fmt.Println("\nLatest Evaluation:")
	reportJSON, createdAt, err := repos.Evaluation.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			fmt.Println("  no evaluations recorded")
			return
		}
		fmt.Printf("  error: %v\n", err)
		return
	}

	var report trainer.EvaluationReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		fmt.Printf("  unreadable report: %v\n", err)
		return
	}
	fmt.Printf("  Recorded At:    %s\n", createdAt.Format(time.RFC3339))
	fmt.Printf("  Games Used:     %d (skipped %d)\n", report.GamesUsed, report.GamesSkipped)
	fmt.Println("  MAE (k-fold / chronological):")
	for _, model := range []string{models.ModelFormula, models.ModelCalibrated, models.ModelLearned, models.ModelEnsemble} {
		kf, kok := report.MAEKFold[model]
		ch, cok := report.MAEChronological[model]
		if !kok && !cok {
			continue
		}
		fmt.Printf("    %-10s %.2f / %.2f\n", model, kf, ch)
	}
	fmt.Println()
}

func listVersions(parent context.Context, name string) {
	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	artifacts, err := repos.Model.List(ctx, name)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if len(artifacts) == 0 {
		fmt.Printf("No stored versions of %q\n", name)
		return
	}
	fmt.Printf("\n%-18s %-8s %-8s %s\n", "VERSION", "SCHEMA", "ACTIVE", "TRAINED AT")
	for _, a := range artifacts {
		active := ""
		if a.IsActive() {
			active = "yes"
		}
		fmt.Printf("%-18s %-8s %-8s %s\n", a.Version, a.SchemaVersion, active, a.TrainedAt.Format(time.RFC3339))
	}
	fmt.Println()
}
