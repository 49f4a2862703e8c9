package ingestion

import (
	"context"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// Service accepts raw records over HTTP and persists the valid ones.
type Service struct {
	normalizer       *Normalizer
	sink             storage.RecordSink
	maxBodySizeBytes int
	onStored         func(ctx context.Context)
}

func NewService(normalizer *Normalizer, sink storage.RecordSink, maxBodySizeMB int) *Service {
	if normalizer == nil {
		panic("ingestion: normalizer must not be nil")
	}
	if sink == nil {
		panic("ingestion: sink must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		normalizer:       normalizer,
		sink:             sink,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// OnStored sets a hook that runs after an import stored at least one new
// record, before the response is written. The serve command uses it to
// reload the dashboard dataset.
func (s *Service) OnStored(fn func(ctx context.Context)) {
	s.onStored = fn
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/records", s.ImportHandler)
}
