package prediction

import (
	"context"
	"time"

	"agririsk-back/internal/models"
	"agririsk-back/internal/store"
)

// Summary is the analytics view over one user's history.
type Summary struct {
	TotalPredictions int64            `json:"total_predictions"`
	HighRiskCount    int64            `json:"high_risk_count"`
	MediumRiskCount  int64            `json:"medium_risk_count"`
	LowRiskCount     int64            `json:"low_risk_count"`
	AvgTemperature   float64          `json:"avg_temperature"`
	AvgHumidity      float64          `json:"avg_humidity"`
	RiskDistribution RiskDistribution `json:"risk_distribution"`
	ClimateTrend     []TrendPoint     `json:"climate_trend"`
}

// RiskDistribution holds each label's share of the total, in percent.
type RiskDistribution struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

type TrendPoint struct {
	PredictionDate string  `json:"prediction_date"`
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
}

// Analytics computes the summary for user. It reads only.
func (s *Service) Analytics(ctx context.Context, user *models.User) (*Summary, error) {
	var (
		agg   store.Aggregate
		trend []store.TrendRow
	)
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		var err error
		if agg, err = tx.Aggregate(user.ID); err != nil {
			return err
		}
		trend, err = tx.ClimateTrend(user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return summarize(agg, trend), nil
}

func summarize(agg store.Aggregate, trend []store.TrendRow) *Summary {
	summary := &Summary{
		TotalPredictions: agg.Total,
		HighRiskCount:    agg.HighCount,
		MediumRiskCount:  agg.MediumCount,
		LowRiskCount:     agg.LowCount,
		AvgTemperature:   round2(agg.AvgTemperature),
		AvgHumidity:      round2(agg.AvgHumidity),
		ClimateTrend:     make([]TrendPoint, 0, len(trend)),
	}

	if agg.Total > 0 {
		total := float64(agg.Total)
		summary.RiskDistribution = RiskDistribution{
			High:   round2(float64(agg.HighCount) / total * 100),
			Medium: round2(float64(agg.MediumCount) / total * 100),
			Low:    round2(float64(agg.LowCount) / total * 100),
		}
	}

	for _, row := range trend {
		summary.ClimateTrend = append(summary.ClimateTrend, TrendPoint{
			PredictionDate: time.Time(row.PredictionDate).Format(time.DateOnly),
			Temperature:    row.Temperature,
			Humidity:       row.Humidity,
		})
	}

	return summary
}
