package dashboard

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Aebel-Shajan/activity-tracker/internal/core/aggregation"
	httperr "github.com/Aebel-Shajan/activity-tracker/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const contentTypeSVG = "image/svg+xml"

// RegisterRoutes registers all dashboard API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")

	v1.GET("/dataset", s.HandleDataset)
	v1.GET("/apps", s.HandleOverview)
	v1.GET("/days", s.HandleDays)
	v1.GET("/heatmap", s.HandleHeatmap)
	v1.GET("/timeline", s.HandleTimeline)

	v1.GET("/selection", s.HandleGetSelection)
	v1.PUT("/selection", s.HandleSetSelection)
	v1.POST("/selection/next", s.HandleShiftSelection(1))
	v1.POST("/selection/prev", s.HandleShiftSelection(-1))

	if s.renderer != nil {
		v1.GET("/heatmap.svg", s.HandleHeatmapSVG)
		v1.GET("/timeline.svg", s.HandleTimelineSVG)
	}
}

// HandleDataset handles GET /v1/dataset
func (s *Service) HandleDataset(c *gin.Context) {
	ds := s.Dataset()
	if ds == nil {
		writeViewError(c, ErrNoDataset)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          ds.ID,
		"fingerprint": ds.Fingerprint,
		"loaded_at":   ds.LoadedAt,
		"records":     ds.Len(),
		"report":      ds.Report,
	})
}

// HandleOverview handles GET /v1/apps
func (s *Service) HandleOverview(c *gin.Context) {
	view, err := s.Overview()
	if err != nil {
		writeViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleDays handles GET /v1/days
// Query parameters: operator (count, sum, min, max; default sum)
func (s *Service) HandleDays(c *gin.Context) {
	view, err := s.Days(c.Query("operator"))
	if err != nil {
		writeViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleHeatmap handles GET /v1/heatmap
// Query parameters: year (optional)
func (s *Service) HandleHeatmap(c *gin.Context) {
	view, err := s.heatmapFromQuery(c)
	if err != nil {
		writeViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleTimeline handles GET /v1/timeline
// Query parameters: date (YYYY-MM-DD, optional; defaults to the selection)
func (s *Service) HandleTimeline(c *gin.Context) {
	view, err := s.timelineFromQuery(c)
	if err != nil {
		writeViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// HandleHeatmapSVG handles GET /v1/heatmap.svg
func (s *Service) HandleHeatmapSVG(c *gin.Context) {
	view, err := s.heatmapFromQuery(c)
	if err != nil {
		writeViewError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Heatmap(&buf, view); err != nil {
		writeViewError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeSVG, buf.Bytes())
}

// HandleTimelineSVG handles GET /v1/timeline.svg
func (s *Service) HandleTimelineSVG(c *gin.Context) {
	view, err := s.timelineFromQuery(c)
	if err != nil {
		writeViewError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Timeline(&buf, view); err != nil {
		writeViewError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeSVG, buf.Bytes())
}

// HandleGetSelection handles GET /v1/selection
func (s *Service) HandleGetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, selectionState(s.selection.SelectedDate()))
}

// HandleSetSelection handles PUT /v1/selection with body {"date": "YYYY-MM-DD"}
func (s *Service) HandleSetSelection(c *gin.Context) {
	var body struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid selection body",
			Details:   err.Error(),
		})
		return
	}

	day, err := ParseDay(body.Date)
	if err != nil {
		writeViewError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectionState(s.selection.SetSelectedDate(day)))
}

// HandleShiftSelection returns the handler for POST /v1/selection/next and /prev.
func (s *Service) HandleShiftSelection(days int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var day time.Time
		if days > 0 {
			day = s.selection.Next()
		} else {
			day = s.selection.Prev()
		}
		c.JSON(http.StatusOK, selectionState(day))
	}
}

func (s *Service) heatmapFromQuery(c *gin.Context) (*HeatmapView, error) {
	year, err := ParseYear(c.Query("year"))
	if err != nil {
		return nil, err
	}
	return s.Heatmap(year)
}

func (s *Service) timelineFromQuery(c *gin.Context) (*TimelineView, error) {
	var day time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := ParseDay(raw)
		if err != nil {
			return nil, err
		}
		day = parsed
	}
	return s.Timeline(day)
}

func selectionState(day time.Time) SelectionState {
	return SelectionState{Date: aggregation.DayKeyOf(day)}
}

// writeViewError maps view errors onto HTTP status codes.
func writeViewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid dashboard query",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrNoDataset):
		c.JSON(http.StatusServiceUnavailable, httperr.ErrorResponse{
			ErrorType: httperr.HttpNoDatasetError,
			Message:   "No dataset loaded yet",
		})
	default:
		slog.Error("Failed to build dashboard view", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to build view",
			Details:   err.Error(),
		})
	}
}
