package prediction

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"agririsk-back/internal/apperr"
	"agririsk-back/internal/models"
	"agririsk-back/internal/store"
	"agririsk-back/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewService(store.New(db), fixedSource(0.5), testutil.DiscardLogger()), db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func sampleInput(humidity, rainfall float64, date string) Input {
	return Input{
		CropType:       "Rice",
		CropStage:      "Tillering",
		State:          "Odisha",
		District:       "Cuttack",
		City:           "Cuttack",
		Village:        "Kandarpur",
		Temperature:    31.5,
		Humidity:       humidity,
		Rainfall:       rainfall,
		WindSpeed:      4.2,
		SoilMoisture:   38,
		PredictionDate: date,
	}
}

func TestSubmitStoresClassifiedRecord(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "farmer@example.com")
	ctx := context.Background()

	tests := []struct {
		humidity, rainfall float64
		want               string
	}{
		{80, 60, models.RiskHigh},
		{50, 0, models.RiskMedium},
		{90, 0, models.RiskLow},
		{40, 0, models.RiskMedium},
		{39.99, 0, models.RiskLow},
	}

	for _, tt := range tests {
		record, err := svc.Submit(ctx, user, sampleInput(tt.humidity, tt.rainfall, "2025-08-14"))
		require.NoError(t, err)
		assert.NotZero(t, record.ID)
		assert.Equal(t, user.ID, record.UserID)
		assert.Equal(t, tt.want, record.PredictionResult, "humidity=%v rainfall=%v", tt.humidity, tt.rainfall)
		assert.Equal(t, 0.85, record.ConfidenceScore)
		assert.False(t, record.CreatedAt.IsZero())
		assert.Equal(t, "2025-08-14", time.Time(record.PredictionDate).Format(time.DateOnly))
	}

	var count int64
	require.NoError(t, db.Model(&models.PredictionHistory{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(len(tests)), count)
}

func TestSubmitValidation(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "farmer@example.com")
	ctx := context.Background()

	bad := sampleInput(50, 10, "14/08/2025")
	_, err := svc.Submit(ctx, user, bad)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	missing := sampleInput(50, 10, "2025-08-14")
	missing.Village = " "
	missing.CropType = ""
	_, err = svc.Submit(ctx, user, missing)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "crop_type, village")
}

func TestGetIsScopedToOwner(t *testing.T) {
	svc, db := setupService(t)
	owner := createUser(t, db, "owner@example.com")
	intruder := createUser(t, db, "intruder@example.com")
	ctx := context.Background()

	record, err := svc.Submit(ctx, owner, sampleInput(80, 60, "2025-08-14"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = svc.Get(ctx, intruder, record.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Latest(ctx, intruder)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "No predictions found", err.Error())

	_, err = svc.Get(ctx, owner, record.ID+100)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Prediction not found", err.Error())
}

func TestListAndLatest(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "farmer@example.com")
	ctx := context.Background()

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	var ids []uint
	for i := 0; i < 3; i++ {
		r, err := svc.Submit(ctx, user, sampleInput(50, 0, "2025-08-14"))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	list, err = svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt), "list must be newest first")
	}
	assert.Equal(t, ids[2], list[0].ID)

	latest, err := svc.Latest(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, latest.ID)
}

func TestAnalyticsEmpty(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "farmer@example.com")

	summary, err := svc.Analytics(context.Background(), user)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalPredictions)
	assert.Zero(t, summary.HighRiskCount)
	assert.Zero(t, summary.MediumRiskCount)
	assert.Zero(t, summary.LowRiskCount)
	assert.Equal(t, 0.0, summary.AvgTemperature)
	assert.Equal(t, 0.0, summary.AvgHumidity)
	assert.Equal(t, RiskDistribution{}, summary.RiskDistribution)
	assert.NotNil(t, summary.ClimateTrend)
	assert.Empty(t, summary.ClimateTrend)
}

func TestAnalytics(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "farmer@example.com")
	other := createUser(t, db, "other@example.com")
	ctx := context.Background()

	inputs := []Input{
		sampleInput(80, 60, "2025-08-03"), // High
		sampleInput(50, 0, "2025-08-01"),  // Medium
		sampleInput(20, 0, "2025-08-02"),  // Low
	}
	inputs[0].Temperature = 30
	inputs[1].Temperature = 20
	inputs[2].Temperature = 25.56
	for _, in := range inputs {
		_, err := svc.Submit(ctx, user, in)
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, other, sampleInput(80, 60, "2025-07-01"))
	require.NoError(t, err)

	summary, err := svc.Analytics(ctx, user)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalPredictions)
	assert.Equal(t, int64(1), summary.HighRiskCount)
	assert.Equal(t, int64(1), summary.MediumRiskCount)
	assert.Equal(t, int64(1), summary.LowRiskCount)
	assert.Equal(t, 25.19, summary.AvgTemperature)
	assert.Equal(t, 50.0, summary.AvgHumidity)
	assert.Equal(t, RiskDistribution{High: 33.33, Medium: 33.33, Low: 33.33}, summary.RiskDistribution)

	sum := summary.RiskDistribution.High + summary.RiskDistribution.Medium + summary.RiskDistribution.Low
	assert.InDelta(t, 100.0, sum, 0.03)

	require.Len(t, summary.ClimateTrend, 3)
	assert.Equal(t, TrendPoint{PredictionDate: "2025-08-01", Temperature: 20, Humidity: 50}, summary.ClimateTrend[0])
	assert.Equal(t, "2025-08-02", summary.ClimateTrend[1].PredictionDate)
	assert.Equal(t, "2025-08-03", summary.ClimateTrend[2].PredictionDate)
}

func TestSummarizePercentages(t *testing.T) {
	s := summarize(store.Aggregate{Total: 7, HighCount: 2, MediumCount: 4, LowCount: 1, AvgTemperature: 21.456, AvgHumidity: 60.004}, nil)

	assert.Equal(t, 28.57, s.RiskDistribution.High)
	assert.Equal(t, 57.14, s.RiskDistribution.Medium)
	assert.Equal(t, 14.29, s.RiskDistribution.Low)
	assert.Equal(t, 21.46, s.AvgTemperature)
	assert.Equal(t, 60.0, s.AvgHumidity)
	assert.NotNil(t, s.ClimateTrend)
}

func TestExportCSV(t *testing.T) {
	svc, db := setupService(t)
	user := createUser(t, db, "farmer@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, user, sampleInput(80, 60, "2025-08-03"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, user, sampleInput(50, 0, "2025-08-04"))
	require.NoError(t, err)

	data, err := svc.ExportBytes(ctx, user)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	// Newest first.
	assert.Equal(t, "2025-08-04", rows[1][1])
	assert.Equal(t, models.RiskMedium, rows[1][13])
	assert.Equal(t, "Kandarpur", rows[1][7])
	assert.Equal(t, "31.5", rows[1][8])
	assert.Equal(t, "0.85", rows[1][14])
}
