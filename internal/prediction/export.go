package prediction

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"agririsk-back/internal/models"
)

var exportHeader = []string{
	"id", "prediction_date", "crop_type", "crop_stage",
	"state", "district", "city", "village",
	"temperature", "humidity", "rainfall", "wind_speed", "soil_moisture",
	"prediction_result", "confidence_score", "created_at",
}

// Export writes the user's history as CSV, newest first.
func (s *Service) Export(ctx context.Context, user *models.User, w io.Writer) error {
	records, err := s.List(ctx, user)
	if err != nil {
		return err
	}
	return WriteCSV(w, records)
}

// ExportBytes renders the user's history as a CSV document.
func (s *Service) ExportBytes(ctx context.Context, user *models.User) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Export(ctx, user, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteCSV(w io.Writer, records []models.PredictionHistory) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			time.Time(r.PredictionDate).Format(time.DateOnly),
			r.CropType,
			r.CropStage,
			r.State,
			r.District,
			r.City,
			r.Village,
			formatFloat(r.Temperature),
			formatFloat(r.Humidity),
			formatFloat(r.Rainfall),
			formatFloat(r.WindSpeed),
			formatFloat(r.SoilMoisture),
			r.PredictionResult,
			formatFloat(r.ConfidenceScore),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
