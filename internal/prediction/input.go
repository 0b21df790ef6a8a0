package prediction

import (
	"fmt"
	"strings"
	"time"

	"agririsk-back/internal/apperr"
)

// Input is a submitted set of field readings.
type Input struct {
	CropType  string
	CropStage string

	State    string
	District string
	City     string
	Village  string

	Temperature  float64
	Humidity     float64
	Rainfall     float64
	WindSpeed    float64
	SoilMoisture float64

	// PredictionDate is a calendar date, YYYY-MM-DD.
	PredictionDate string
}

// Validate checks that every text field is present and the date parses.
// Readings are not range checked.
func (in Input) Validate() (time.Time, error) {
	required := []struct {
		name, value string
	}{
		{"crop_type", in.CropType},
		{"crop_stage", in.CropStage},
		{"state", in.State},
		{"district", in.District},
		{"city", in.City},
		{"village", in.Village},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return time.Time{}, apperr.Validation(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")), nil)
	}

	date, err := time.Parse(time.DateOnly, in.PredictionDate)
	if err != nil {
		return time.Time{}, apperr.Validation("prediction_date must be a date in YYYY-MM-DD format", nil)
	}
	return date, nil
}
