package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"statfit/app"
	"statfit/internal"
	"statfit/internal/config"
	"statfit/internal/errors"
	"statfit/internal/ingest"
	"statfit/internal/report"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present (ignore error if it doesn't exist)
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration: %v", err)
		os.Exit(1)
	}

	service := app.NewAnalysisService(ingest.NewHTTPFetcher())

	logger.Info("starting analysis run (survey: %s)", cfg.Data.SurveyURL)
	result, err := service.Run(context.Background(), app.AnalysisRequest{
		SurveyURL:  cfg.Data.SurveyURL,
		Confidence: cfg.Report.Confidence,
	})
	if err != nil {
		logger.Error("analysis run failed (%s): %v", errors.GetCode(err), err)
		os.Exit(1)
	}
	logger.Info("run %s completed in %dms", result.RunID, result.RuntimeMs)

	// Coefficient tables and scenario predictions to stdout, the way the
	// source analysis printed them.
	fmt.Println(report.RenderSummary("Judge ratings: RTEN ~ INTG (OLS, HC3)", result.JudgesUnivariate))
	fmt.Println(report.RenderSummary("Judge ratings: RTEN ~ INTG + FAMI (OLS, HC3)", result.JudgesMultivariate))
	fmt.Println(report.RenderSummary("Survey: abortion ~ female + importance + education + urban (logistic, HC3)", result.SurveyLogistic))
	fmt.Println("Scenario predictions (P(abortion=yes)):")
	fmt.Println(report.RenderPredictions(result.Scenarios))

	if err := writeReports(cfg, result, logger); err != nil {
		logger.Error("writing reports: %v", err)
		os.Exit(1)
	}
}

func writeReports(cfg *config.Config, result *app.AnalysisResult, logger *internal.Logger) error {
	if !cfg.Report.WriteHTML && !cfg.Report.WriteXLSX {
		return nil
	}
	if err := os.MkdirAll(cfg.Report.Dir, 0o755); err != nil {
		return errors.ReportError("creating report directory", err)
	}

	if cfg.Report.WriteHTML {
		md := report.Narrative(result.JudgesUnivariate, result.JudgesMultivariate, result.SurveyLogistic)
		htmlPath := filepath.Join(cfg.Report.Dir, "analysis.html")
		if err := os.WriteFile(htmlPath, report.RenderHTML(md), 0o644); err != nil {
			return errors.ReportError("writing narrative", err)
		}
		logger.Info("wrote narrative %s", htmlPath)
	}

	if cfg.Report.WriteXLSX {
		xlsxPath := filepath.Join(cfg.Report.Dir, "analysis.xlsx")
		err := report.WriteWorkbook(xlsxPath, []report.WorkbookEntry{
			{Sheet: "univariate OLS", Summary: result.JudgesUnivariate, Fit: result.UnivariateFit},
			{Sheet: "multivariate OLS", Summary: result.JudgesMultivariate, Fit: result.MultivariateFit},
			{Sheet: "survey logistic", Summary: result.SurveyLogistic, Fit: result.LogisticFit},
		})
		if err != nil {
			return errors.ReportError("writing workbook", err)
		}
		logger.Info("wrote workbook %s", xlsxPath)
	}

	return nil
}
