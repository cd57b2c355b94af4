package trainer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/courtside-totals/internal/models"
)

// GenerateConsoleReport formats an evaluation report for terminal output
func GenerateConsoleReport(report EvaluationReport) string {
	var builder strings.Builder
	builder.WriteString("Evaluation Report\n")
	builder.WriteString("=================\n")
	builder.WriteString(fmt.Sprintf("Games Used: %d\n", report.GamesUsed))
	builder.WriteString(fmt.Sprintf("Games Skipped: %d\n", report.GamesSkipped))
	builder.WriteString(fmt.Sprintf("Weights: formula=%.2f calibrated=%.2f learned=%.2f\n",
		report.Weights.Formula, report.Weights.Calibrated, report.Weights.Learned))
	builder.WriteString("\nMAE (K-fold / chronological):\n")
	for _, model := range []string{models.ModelFormula, models.ModelCalibrated, models.ModelLearned, models.ModelEnsemble} {
		builder.WriteString(fmt.Sprintf("  %-11s %.3f / %.3f\n",
			model, report.MAEKFold[model], report.MAEChronological[model]))
	}
	return builder.String()
}

// WriteJSONReport writes the evaluation report as JSON
func WriteJSONReport(report EvaluationReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ToJSON exports the report as a JSON string
func (r EvaluationReport) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}
