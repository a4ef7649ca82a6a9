package app

import (
	"context"
	"time"

	"statfit/domain/core"
	"statfit/domain/model"
	"statfit/domain/table"
	"statfit/internal/errors"
	"statfit/internal/ingest"
	"statfit/internal/profiling"
	"statfit/internal/regress"
	"statfit/internal/report"
)

// Survey field recodings. The religion-importance field is the one the source
// analysis codes 0..3; the plain-language labels are the raw survey strings.
var (
	ImportanceLevels = []string{"not", "notvery", "somewhat", "very"}
	EducationLevels  = []string{"lessHS", "HS", "vocational", "someCollege", "bachelors", "graduate"}
)

// AnalysisRequest carries the per-run inputs of the full analysis
type AnalysisRequest struct {
	SurveyURL  string
	Confidence float64
}

// AnalysisResult is the run manifest plus every derived output: profiles,
// inference summaries under HC3, recode audit, and scenario predictions.
type AnalysisResult struct {
	RunID       core.RunID     `json:"run_id"`
	StartedAt   core.Timestamp `json:"started_at"`
	CompletedAt core.Timestamp `json:"completed_at"`
	RuntimeMs   int64          `json:"runtime_ms"`

	JudgeProfiles []profiling.ColumnProfile

	JudgesUnivariate   *model.Summary
	JudgesMultivariate *model.Summary
	SurveyLogistic     *model.Summary

	UnivariateFit   *model.Fitted
	MultivariateFit *model.Fitted
	LogisticFit     *model.Fitted

	ImportanceAudit []table.CrossTabRow

	Scenarios []report.Scenario
}

// AnalysisService orchestrates the full teaching analysis: the two OLS fits
// on the bundled judge ratings and the HC3 logistic fit on the remote survey.
type AnalysisService struct {
	fetcher  ingest.Fetcher
	profiler *profiling.Profiler
}

// NewAnalysisService creates an analysis service around a survey fetcher
func NewAnalysisService(fetcher ingest.Fetcher) *AnalysisService {
	return &AnalysisService{
		fetcher:  fetcher,
		profiler: profiling.NewProfiler(),
	}
}

// Run executes the whole analysis. Every failure is fatal for the run: a
// model on corrupted recoding is worse than no model, so nothing degrades.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	started := time.Now()
	result := &AnalysisResult{
		RunID:     core.RunID(core.NewID()),
		StartedAt: core.NewTimestamp(started),
	}

	if err := s.runJudges(ctx, req, result); err != nil {
		return nil, err
	}
	if err := s.runSurvey(ctx, req, result); err != nil {
		return nil, err
	}

	completed := time.Now()
	result.CompletedAt = core.NewTimestamp(completed)
	result.RuntimeMs = completed.Sub(started).Milliseconds()
	return result, nil
}

// runJudges profiles the bundled ratings table and fits the two OLS models
func (s *AnalysisService) runJudges(ctx context.Context, req AnalysisRequest, result *AnalysisResult) error {
	judges, err := ingest.LoadJudges()
	if err != nil {
		return errors.IngestError("loading judge ratings", err)
	}

	profiles, err := s.profiler.ProfileTable(ctx, judges)
	if err != nil {
		return errors.ModelError("profiling judge ratings", err)
	}
	result.JudgeProfiles = profiles

	// Univariate: retention rating on integrity.
	uniDesign, err := model.Build(judges, model.Spec{
		Outcome:    "RTEN",
		Predictors: []model.Predictor{model.Numeric("INTG")},
	})
	if err != nil {
		return errors.ModelError("building univariate design", err)
	}
	uniFit, err := regress.FitOLS(uniDesign)
	if err != nil {
		return errors.ModelError("univariate OLS fit", err)
	}
	result.UnivariateFit = uniFit
	if result.JudgesUnivariate, err = regress.Summarize(uniFit, model.CovHC3, req.Confidence); err != nil {
		return errors.ModelError("univariate inference", err)
	}

	// Two predictors: integrity plus familiarity with the law.
	multiDesign, err := model.Build(judges, model.Spec{
		Outcome:    "RTEN",
		Predictors: []model.Predictor{model.Numeric("INTG"), model.Numeric("FAMI")},
	})
	if err != nil {
		return errors.ModelError("building multivariate design", err)
	}
	multiFit, err := regress.FitOLS(multiDesign)
	if err != nil {
		return errors.ModelError("multivariate OLS fit", err)
	}
	result.MultivariateFit = multiFit
	if result.JudgesMultivariate, err = regress.Summarize(multiFit, model.CovHC3, req.Confidence); err != nil {
		return errors.ModelError("multivariate inference", err)
	}

	return nil
}

// runSurvey fetches the survey, recodes its fields, fits the logistic model
// under HC3, and evaluates the scenario predictions
func (s *AnalysisService) runSurvey(ctx context.Context, req AnalysisRequest, result *AnalysisResult) error {
	survey, err := s.fetcher.Fetch(ctx, req.SurveyURL)
	if err != nil {
		return errors.IngestError("fetching survey dataset", err)
	}

	if err := s.recodeSurvey(survey); err != nil {
		return errors.ModelError("recoding survey fields", err)
	}

	audit, err := survey.CrossTab("importance", "importance_code")
	if err != nil {
		return errors.ModelError("auditing importance recode", err)
	}
	result.ImportanceAudit = audit

	spec := SurveySpec()
	design, err := model.Build(survey, spec)
	if err != nil {
		return errors.ModelError("building survey design", err)
	}
	fit, err := regress.FitLogistic(design)
	if err != nil {
		return errors.ModelError("logistic fit", err)
	}
	result.LogisticFit = fit
	if result.SurveyLogistic, err = regress.Summarize(fit, model.CovHC3, req.Confidence); err != nil {
		return errors.ModelError("logistic inference", err)
	}

	scenarios, err := s.scenarioPredictions(fit)
	if err != nil {
		return errors.ModelError("scenario predictions", err)
	}
	result.Scenarios = scenarios

	return nil
}

// recodeSurvey appends the derived columns the logistic model consumes
func (s *AnalysisService) recodeSurvey(survey *table.Table) error {
	if err := survey.RecodeBinary("gender", "female", "Male", "Female"); err != nil {
		return err
	}
	if err := survey.RecodeBinary("abortion", "abortion_yes", "no", "yes"); err != nil {
		return err
	}
	if err := survey.RecodeOrdinal("importance", "importance_code", ImportanceLevels); err != nil {
		return err
	}
	// Education stays categorical; declare its ordering now so an out-of-set
	// level fails at recode time, not in the middle of the fit.
	if err := survey.CheckLevels("education", EducationLevels); err != nil {
		return err
	}
	return nil
}

// SurveySpec is the logistic model configuration: abortion attitude on the
// female indicator, religion-importance code, ordered education factor with
// lessHS as the reference level, and the urban indicator.
func SurveySpec() model.Spec {
	return model.Spec{
		Outcome: "abortion_yes",
		Predictors: []model.Predictor{
			model.Numeric("female"),
			model.Numeric("importance_code"),
			model.Factor("education", EducationLevels...),
			model.Binary("urban", "rural", "urban"),
		},
	}
}

// scenarioPredictions evaluates the two synthetic voters from the source
// analysis: an urban HS-educated male with low religion importance, and the
// same record with importance one step higher
func (s *AnalysisService) scenarioPredictions(fit *model.Fitted) ([]report.Scenario, error) {
	base := table.Record{
		"female":          table.Num(0),
		"importance_code": table.Num(1),
		"education":       table.Cat("HS"),
		"urban":           table.Num(1),
	}
	bumped := table.Record{
		"female":          table.Num(0),
		"importance_code": table.Num(2),
		"education":       table.Cat("HS"),
		"urban":           table.Num(1),
	}

	probs, err := regress.PredictBatch(fit, []table.Record{base, bumped})
	if err != nil {
		return nil, err
	}
	return []report.Scenario{
		{Label: "urban HS male, importance=notvery", Value: probs[0]},
		{Label: "urban HS male, importance=somewhat", Value: probs[1]},
	}, nil
}
