package store

import (
	"agririsk-back/internal/models"

	"gorm.io/datatypes"
)

// newestFirst orders history by creation time, id breaking ties so the order
// is stable between calls.
const newestFirst = "created_at DESC, id DESC"

// Aggregate holds the per-user totals the analytics summary is built from.
type Aggregate struct {
	Total          int64
	HighCount      int64
	MediumCount    int64
	LowCount       int64
	AvgTemperature float64
	AvgHumidity    float64
}

// TrendRow is one point of the climate series.
type TrendRow struct {
	PredictionDate datatypes.Date
	Temperature    float64
	Humidity       float64
}

func (s *Store) CreatePrediction(p *models.PredictionHistory) error {
	return translate(s.db.Create(p).Error, "create prediction")
}

// Prediction returns the record with id only if it belongs to userID.
func (s *Store) Prediction(userID, id uint) (*models.PredictionHistory, error) {
	var p models.PredictionHistory
	err := s.db.Where("id = ? AND user_id = ?", id, userID).Take(&p).Error
	if err != nil {
		return nil, translate(err, "find prediction")
	}
	return &p, nil
}

func (s *Store) LatestPrediction(userID uint) (*models.PredictionHistory, error) {
	var p models.PredictionHistory
	err := s.db.Where("user_id = ?", userID).Order(newestFirst).Take(&p).Error
	if err != nil {
		return nil, translate(err, "find latest prediction")
	}
	return &p, nil
}

// Predictions lists all of the user's records, newest first. The result is
// never nil.
func (s *Store) Predictions(userID uint) ([]models.PredictionHistory, error) {
	predictions := []models.PredictionHistory{}
	err := s.db.Where("user_id = ?", userID).Order(newestFirst).Find(&predictions).Error
	if err != nil {
		return nil, translate(err, "list predictions")
	}
	return predictions, nil
}

func (s *Store) Aggregate(userID uint) (Aggregate, error) {
	var agg Aggregate
	err := s.db.Model(&models.PredictionHistory{}).
		Select(`COUNT(id) AS total,
			COALESCE(SUM(CASE WHEN prediction_result = ? THEN 1 ELSE 0 END), 0) AS high_count,
			COALESCE(SUM(CASE WHEN prediction_result = ? THEN 1 ELSE 0 END), 0) AS medium_count,
			COALESCE(SUM(CASE WHEN prediction_result = ? THEN 1 ELSE 0 END), 0) AS low_count,
			COALESCE(AVG(temperature), 0) AS avg_temperature,
			COALESCE(AVG(humidity), 0) AS avg_humidity`,
			models.RiskHigh, models.RiskMedium, models.RiskLow).
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return Aggregate{}, translate(err, "aggregate predictions")
	}
	return agg, nil
}

// ClimateTrend returns the user's readings oldest first by prediction date,
// then by creation time. The result is never nil.
func (s *Store) ClimateTrend(userID uint) ([]TrendRow, error) {
	rows := []TrendRow{}
	err := s.db.Model(&models.PredictionHistory{}).
		Select("prediction_date, temperature, humidity").
		Where("user_id = ?", userID).
		Order("prediction_date ASC, created_at ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "climate trend")
	}
	return rows, nil
}
