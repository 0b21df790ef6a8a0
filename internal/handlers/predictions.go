// internal/handlers/predictions.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"agririsk-back/internal/apperr"
	"agririsk-back/internal/metrics"
	"agririsk-back/internal/middleware"
	"agririsk-back/internal/models"
	"agririsk-back/internal/prediction"

	"github.com/gin-gonic/gin"
)

// PredictRequest is the submitted form. Readings are pointers so that an
// explicit 0 passes the required check while a missing field does not, and
// they accept numeric strings as well as numbers.
type PredictRequest struct {
	CropType  string `json:"crop_type" binding:"required"`
	CropStage string `json:"crop_stage" binding:"required"`
	State     string `json:"state" binding:"required"`
	District  string `json:"district" binding:"required"`
	City      string `json:"city" binding:"required"`
	Village   string `json:"village" binding:"required"`

	Temperature  *Number `json:"temperature" binding:"required"`
	Humidity     *Number `json:"humidity" binding:"required"`
	Rainfall     *Number `json:"rainfall" binding:"required"`
	WindSpeed    *Number `json:"wind_speed" binding:"required"`
	SoilMoisture *Number `json:"soil_moisture" binding:"required"`

	PredictionDate string `json:"prediction_date" binding:"required"`
}

func (r PredictRequest) input() prediction.Input {
	return prediction.Input{
		CropType:       r.CropType,
		CropStage:      r.CropStage,
		State:          r.State,
		District:       r.District,
		City:           r.City,
		Village:        r.Village,
		Temperature:    float64(*r.Temperature),
		Humidity:       float64(*r.Humidity),
		Rainfall:       float64(*r.Rainfall),
		WindSpeed:      float64(*r.WindSpeed),
		SoilMoisture:   float64(*r.SoilMoisture),
		PredictionDate: r.PredictionDate,
	}
}

type PredictionResponse struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	CropType         string    `json:"crop_type"`
	CropStage        string    `json:"crop_stage"`
	State            string    `json:"state"`
	District         string    `json:"district"`
	City             string    `json:"city"`
	Village          string    `json:"village"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	Rainfall         float64   `json:"rainfall"`
	WindSpeed        float64   `json:"wind_speed"`
	SoilMoisture     float64   `json:"soil_moisture"`
	PredictionResult string    `json:"prediction_result"`
	ConfidenceScore  float64   `json:"confidence_score"`
	PredictionDate   string    `json:"prediction_date"`
	CreatedAt        time.Time `json:"created_at"`
}

func newPredictionResponse(p *models.PredictionHistory) PredictionResponse {
	return PredictionResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		CropType:         p.CropType,
		CropStage:        p.CropStage,
		State:            p.State,
		District:         p.District,
		City:             p.City,
		Village:          p.Village,
		Temperature:      p.Temperature,
		Humidity:         p.Humidity,
		Rainfall:         p.Rainfall,
		WindSpeed:        p.WindSpeed,
		SoilMoisture:     p.SoilMoisture,
		PredictionResult: p.PredictionResult,
		ConfidenceScore:  p.ConfidenceScore,
		PredictionDate:   time.Time(p.PredictionDate).Format(time.DateOnly),
		CreatedAt:        p.CreatedAt,
	}
}

func Predict(svc *prediction.Service, m *metrics.Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PredictRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, logger, err)
			return
		}

		record, err := svc.Submit(c.Request.Context(), middleware.CurrentUser(c), req.input())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		m.RecordPrediction(record.PredictionResult)

		c.JSON(http.StatusOK, newPredictionResponse(record))
	}
}

func ListPredictions(svc *prediction.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := svc.List(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		response := make([]PredictionResponse, 0, len(records))
		for i := range records {
			response = append(response, newPredictionResponse(&records[i]))
		}
		c.JSON(http.StatusOK, response)
	}
}

func LatestPrediction(svc *prediction.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := svc.Latest(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newPredictionResponse(record))
	}
}

func GetPrediction(svc *prediction.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, logger, apperr.Validation("id must be a non-negative integer", nil))
			return
		}

		record, err := svc.Get(c.Request.Context(), middleware.CurrentUser(c), uint(id))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, newPredictionResponse(record))
	}
}

func Analytics(svc *prediction.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Analytics(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
