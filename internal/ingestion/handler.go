package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/Aebel-Shajan/activity-tracker/internal/api/v1"
	httperr "github.com/Aebel-Shajan/activity-tracker/internal/core/errors"
	"github.com/Aebel-Shajan/activity-tracker/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body: expected an array of records"
	msgNoValidRecords  = "No valid records in request"
	msgPersistFailed   = "Failed to persist records"
	msgBodyTooLarge    = "Request body exceeds maximum allowed size"
	maxReportedRejects = 20
)

// importError carries the structured HTTP error shape from a helper back to the handler.
type importError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *importError) Error() string {
	return e.message
}

// ImportResponse is the body of a successful import.
type ImportResponse struct {
	Status   string      `json:"status"`
	Accepted int         `json:"accepted"`
	Stored   int         `json:"stored"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// ImportHandler handles POST requests carrying a JSON array of raw records.
// Malformed records are reported back; the valid remainder is stored.
func (s *Service) ImportHandler(c *gin.Context) {
	raw, err := s.parseRecords(c)
	if err != nil {
		writeError(c, err)
		return
	}

	records, report := s.normalizer.Normalize(raw)
	metrics.RecordsImported.WithLabelValues("rejected").Add(float64(report.RejectedCount()))

	if len(records) == 0 && len(raw) > 0 {
		writeError(c, &importError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRecordsError,
			message:    msgNoValidRecords,
			details:    truncateRejections(report.Rejected),
		})
		return
	}

	stored, perr := s.persistRecords(c.Request.Context(), records)
	if perr != nil {
		writeError(c, perr)
		return
	}

	metrics.RecordsImported.WithLabelValues("stored").Add(float64(stored))
	metrics.RecordsImported.WithLabelValues("duplicate").Add(float64(max(report.Accepted-stored, 0)))

	slog.Info("Imported records",
		"received", len(raw),
		"accepted", report.Accepted,
		"stored", stored,
		"rejected", report.RejectedCount())

	if stored > 0 && s.onStored != nil {
		s.onStored(context.WithoutCancel(c.Request.Context()))
	}

	c.JSON(http.StatusAccepted, ImportResponse{
		Status:   "accepted",
		Accepted: report.Accepted,
		Stored:   stored,
		Rejected: truncateRejections(report.Rejected),
	})
}

// parseRecords reads the size-limited request body and decodes it.
func (s *Service) parseRecords(c *gin.Context) ([]v1.RawRecord, *importError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &importError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &importError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	var raw []v1.RawRecord
	if err := json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&raw); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, &importError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}
	return raw, nil
}

func (s *Service) persistRecords(ctx context.Context, records []v1.ActivityRecord) (int, *importError) {
	if len(records) == 0 {
		return 0, nil
	}
	stored, err := s.sink.SaveRecords(ctx, records)
	if err != nil {
		slog.Error("Failed to persist records", "error", err, "records", len(records))
		return 0, &importError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}
	return stored, nil
}

func truncateRejections(rejected []Rejection) []Rejection {
	if len(rejected) > maxReportedRejects {
		return rejected[:maxReportedRejects]
	}
	return rejected
}

func writeError(c *gin.Context, err *importError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
