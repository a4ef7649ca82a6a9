package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"statfit/domain/core"
	"statfit/domain/table"
	"statfit/internal/ingest"
	"statfit/internal/regress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticSurveyCSV draws a survey from a logistic model with a positive
// religion-importance effect, so the end-to-end scenario ordering is known
func syntheticSurveyCSV(n int, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	genders := []string{"Male", "Female"}
	urbans := []string{"rural", "urban"}

	var b strings.Builder
	b.WriteString("gender,importance,education,urban,abortion\n")
	for i := 0; i < n; i++ {
		female := rng.Intn(2)
		imp := rng.Intn(len(ImportanceLevels))
		edu := rng.Intn(len(EducationLevels))
		urban := rng.Intn(2)

		eta := -1.2 + 0.5*float64(female) + 0.6*float64(imp) + 0.15*float64(edu) + 0.3*float64(urban)
		outcome := "no"
		if rng.Float64() < 1/(1+math.Exp(-eta)) {
			outcome = "yes"
		}
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s\n",
			genders[female], ImportanceLevels[imp], EducationLevels[edu], urbans[urban], outcome)
	}
	return b.String()
}

func surveyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAnalysisService_Run(t *testing.T) {
	server := surveyServer(t, syntheticSurveyCSV(600, 42))

	service := NewAnalysisService(ingest.NewHTTPFetcher())
	result, err := service.Run(context.Background(), AnalysisRequest{
		SurveyURL:  server.URL,
		Confidence: 0.95,
	})
	require.NoError(t, err)

	assert.False(t, core.ID(result.RunID).IsEmpty())
	assert.False(t, result.StartedAt.IsZero())
	assert.False(t, result.CompletedAt.IsZero())

	// Judges pipeline: 13 column profiles, univariate and two-predictor fits.
	assert.Len(t, result.JudgeProfiles, 13)
	require.NotNil(t, result.JudgesUnivariate)
	assert.Len(t, result.JudgesUnivariate.Coefficients, 2)
	require.NotNil(t, result.JudgesMultivariate)
	assert.Len(t, result.JudgesMultivariate.Coefficients, 3)

	// Survey pipeline: intercept + female + importance + 5 education
	// indicators + urban.
	require.NotNil(t, result.SurveyLogistic)
	assert.Len(t, result.SurveyLogistic.Coefficients, 9)

	// The recode audit is monotone and one-to-one.
	require.Len(t, result.ImportanceAudit, 4)
	for i, row := range result.ImportanceAudit {
		assert.Equal(t, float64(i), row.Code)
		assert.Equal(t, ImportanceLevels[i], row.Raw)
	}
}

func TestAnalysisService_ScenarioMonotoneInImportance(t *testing.T) {
	server := surveyServer(t, syntheticSurveyCSV(600, 42))

	service := NewAnalysisService(ingest.NewHTTPFetcher())
	result, err := service.Run(context.Background(), AnalysisRequest{
		SurveyURL:  server.URL,
		Confidence: 0.95,
	})
	require.NoError(t, err)

	require.Len(t, result.Scenarios, 2)
	base, bumped := result.Scenarios[0].Value, result.Scenarios[1].Value
	assert.Greater(t, base, 0.0)
	assert.Less(t, base, 1.0)
	assert.Greater(t, bumped, 0.0)
	assert.Less(t, bumped, 1.0)

	// The generator uses a positive importance effect; the fit recovers its
	// sign and the bumped scenario's probability must move up with it.
	imp, ok := result.SurveyLogistic.Coefficient("importance_code")
	require.True(t, ok)
	assert.Greater(t, imp.Estimate, 0.0)
	assert.Greater(t, bumped, base)
}

func TestAnalysisService_UnseenEducationQueryFails(t *testing.T) {
	server := surveyServer(t, syntheticSurveyCSV(600, 42))

	service := NewAnalysisService(ingest.NewHTTPFetcher())
	result, err := service.Run(context.Background(), AnalysisRequest{
		SurveyURL:  server.URL,
		Confidence: 0.95,
	})
	require.NoError(t, err)

	_, err = regress.Predict(result.LogisticFit, table.Record{
		"female":          table.Num(0),
		"importance_code": table.Num(1),
		"education":       table.Cat("doctorate"),
		"urban":           table.Num(1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnseenLevel))
}

func TestAnalysisService_FetchFailureIsFatal(t *testing.T) {
	server := surveyServer(t, "")
	url := server.URL
	server.Close()

	service := NewAnalysisService(ingest.NewHTTPFetcher())
	_, err := service.Run(context.Background(), AnalysisRequest{
		SurveyURL:  url,
		Confidence: 0.95,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFetchFailed))
}

func TestAnalysisService_UnmappedSurveyCategoryIsFatal(t *testing.T) {
	// One corrupted importance cell must abort the run, not silently drop
	// the observation.
	body := "gender,importance,education,urban,abortion\n" +
		"Male,not,HS,urban,no\n" +
		"Female,sometimes,lessHS,rural,yes\n"
	server := surveyServer(t, body)

	service := NewAnalysisService(ingest.NewHTTPFetcher())
	_, err := service.Run(context.Background(), AnalysisRequest{
		SurveyURL:  server.URL,
		Confidence: 0.95,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnmappedCategory))
	assert.Contains(t, err.Error(), "sometimes")
}
