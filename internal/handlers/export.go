// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"agririsk-back/internal/apperr"
	"agririsk-back/internal/middleware"
	"agririsk-back/internal/prediction"
	"agririsk-back/internal/storage"

	"github.com/gin-gonic/gin"
)

// Archiver is the object storage used for export archives. *storage.MinIOClient
// implements it.
type Archiver interface {
	UploadFromReader(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	GetPresignedURL(ctx context.Context, objectName string) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
}

var (
	errStorageDisabled    = apperr.Unavailable("Export storage is not configured")
	errStorageUnavailable = apperr.Unavailable("Export storage is unavailable")
)

const csvContentType = "text/csv"

// ExportCSV sends the user's history as a CSV attachment.
func ExportCSV(svc *prediction.Service, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := svc.List(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.Header("Content-Type", csvContentType)
		c.Header("Content-Disposition", `attachment; filename="predictions.csv"`)
		c.Status(http.StatusOK)
		if err := prediction.WriteCSV(c.Writer, records); err != nil {
			// Headers are already sent.
			logger.ErrorContext(c.Request.Context(), "failed to write csv export",
				"error", err,
				"request_id", middleware.GetRequestID(c))
		}
	}
}

// ArchiveExport uploads the user's CSV history to object storage and returns
// a presigned download link.
func ArchiveExport(svc *prediction.Service, archiver Archiver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if archiver == nil {
			respondError(c, logger, errStorageDisabled)
			return
		}

		ctx := c.Request.Context()
		user := middleware.CurrentUser(c)

		data, err := svc.ExportBytes(ctx, user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		objectName := storage.ExportObjectName(user.ID)
		if _, err := archiver.UploadFromReader(ctx, objectName, bytes.NewReader(data), int64(len(data)), csvContentType); err != nil {
			logger.ErrorContext(ctx, "export upload failed", "error", err, "object", objectName)
			respondError(c, logger, errStorageUnavailable)
			return
		}

		url, err := archiver.GetPresignedURL(ctx, objectName)
		if err != nil {
			logger.ErrorContext(ctx, "export presign failed", "error", err, "object", objectName)
			if err := archiver.DeleteFile(ctx, objectName); err != nil {
				logger.WarnContext(ctx, "failed to remove orphaned export", "error", err, "object", objectName)
			}
			respondError(c, logger, errStorageUnavailable)
			return
		}

		logger.InfoContext(ctx, "export archived", "user_id", user.ID, "object", objectName, "bytes", len(data))
		c.JSON(http.StatusOK, gin.H{
			"object": objectName,
			"url":    url,
		})
	}
}
