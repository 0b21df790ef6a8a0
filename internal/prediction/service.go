// Package prediction classifies submitted field readings into a risk bucket,
// stores them per user and serves the history and its analytics.
package prediction

import (
	"context"
	"errors"
	"log/slog"

	"agririsk-back/internal/apperr"
	"agririsk-back/internal/models"
	"agririsk-back/internal/store"

	"gorm.io/datatypes"
)

var (
	errPredictionNotFound = apperr.NotFound("Prediction not found")
	errNoPredictions      = apperr.NotFound("No predictions found")
)

type Service struct {
	store  *store.Store
	source Source
	logger *slog.Logger
}

// NewService builds the service. A nil source uses DefaultSource.
func NewService(st *store.Store, source Source, logger *slog.Logger) *Service {
	if source == nil {
		source = DefaultSource
	}
	return &Service{
		store:  st,
		source: source,
		logger: logger.With("component", "prediction"),
	}
}

// Submit classifies in, stores it for user and returns the stored record.
func (s *Service) Submit(ctx context.Context, user *models.User, in Input) (*models.PredictionHistory, error) {
	date, err := in.Validate()
	if err != nil {
		return nil, err
	}

	record := &models.PredictionHistory{
		UserID:           user.ID,
		CropType:         in.CropType,
		CropStage:        in.CropStage,
		State:            in.State,
		District:         in.District,
		City:             in.City,
		Village:          in.Village,
		Temperature:      in.Temperature,
		Humidity:         in.Humidity,
		Rainfall:         in.Rainfall,
		WindSpeed:        in.WindSpeed,
		SoilMoisture:     in.SoilMoisture,
		PredictionResult: Classify(in.Humidity, in.Rainfall),
		ConfidenceScore:  Confidence(s.source),
		PredictionDate:   datatypes.Date(date),
	}

	err = s.store.Tx(ctx, func(tx *store.Store) error {
		return tx.CreatePrediction(record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "prediction stored",
		"user_id", user.ID,
		"prediction_id", record.ID,
		"risk", record.PredictionResult)
	return record, nil
}

// Get returns one of the user's records. Records owned by someone else are
// reported as not found.
func (s *Service) Get(ctx context.Context, user *models.User, id uint) (*models.PredictionHistory, error) {
	var record *models.PredictionHistory
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		p, err := tx.Prediction(user.ID, id)
		if errors.Is(err, store.ErrNotFound) {
			return errPredictionNotFound
		}
		record = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Latest returns the user's most recently created record.
func (s *Service) Latest(ctx context.Context, user *models.User) (*models.PredictionHistory, error) {
	var record *models.PredictionHistory
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		p, err := tx.LatestPrediction(user.ID)
		if errors.Is(err, store.ErrNotFound) {
			return errNoPredictions
		}
		record = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns all of the user's records, newest first.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.PredictionHistory, error) {
	var records []models.PredictionHistory
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		var err error
		records, err = tx.Predictions(user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
