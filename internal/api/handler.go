package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hotel-analytics-service/config"
	"hotel-analytics-service/internal/ingest"
	"hotel-analytics-service/internal/models"
	"hotel-analytics-service/internal/pipeline"
	"hotel-analytics-service/internal/service"
	"hotel-analytics-service/internal/store"
	"hotel-analytics-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	analysis *service.AnalysisService
	alerts   *service.AlertService
	orders   *store.Store
	cfg      *config.Config
}

// NewHandler creates a new HTTP handler. orders may be nil when no
// database is configured; CSV upload still works.
func NewHandler(analysis *service.AnalysisService, alerts *service.AlertService, orders *store.Store, cfg *config.Config) *Handler {
	return &Handler{
		analysis: analysis,
		alerts:   alerts,
		orders:   orders,
		cfg:      cfg,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analysis", h.runAnalysis)
		v1.GET("/analysis/:id", h.getAnalysis)
		v1.GET("/analysis/:id/forecast", h.getForecast)
		v1.GET("/analysis/:id/ingredients", h.getIngredients)
		v1.GET("/analysis/:id/staffing", h.getStaffing)
		v1.POST("/analysis/:id/alerts", h.requestAlert)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// dbSourceRequest selects order history from the database.
type dbSourceRequest struct {
	HotelID       int                    `json:"hotel_id"`
	From          time.Time              `json:"from" binding:"required"`
	To            time.Time              `json:"to" binding:"required"`
	HorizonDays   int                    `json:"horizon_days"`
	ConfidencePct int                    `json:"confidence_pct"`
	Staffing      *models.StaffingConfig `json:"staffing,omitempty"`
}

// runAnalysis runs the full pipeline on a CSV upload (multipart form,
// field "file") or on a database range (JSON body).
func (h *Handler) runAnalysis(c *gin.Context) {
	var rows []models.OrderLineItem
	req := &service.AnalysisRequest{
		HorizonDays:   h.cfg.Forecast.DefaultHorizonDays,
		ConfidencePct: h.cfg.Forecast.DefaultConfidencePct,
		Staffing:      h.defaultStaffing(),
	}

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open uploaded file", "details": err.Error()})
			return
		}
		defer f.Close()

		rows, err = ingest.ReadCSV(f)
		if err != nil {
			respondPipelineError(c, err)
			return
		}
		h.applyFormOverrides(c, req)
	} else {
		var body dbSourceRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if h.orders == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No order database configured; upload a CSV instead"})
			return
		}

		var err error
		rows, err = h.orders.LoadOrderLineItems(c.Request.Context(), body.HotelID, body.From, body.To)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order history", "details": err.Error()})
			return
		}
		if body.HorizonDays > 0 {
			req.HorizonDays = body.HorizonDays
		}
		if body.ConfidencePct > 0 {
			req.ConfidencePct = body.ConfidencePct
		}
		if body.Staffing != nil {
			req.Staffing = *body.Staffing
		}
	}

	req.Rows = rows
	snap, err := h.analysis.Run(c.Request.Context(), req)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// applyFormOverrides reads optional pipeline parameters from multipart
// form fields.
func (h *Handler) applyFormOverrides(c *gin.Context, req *service.AnalysisRequest) {
	if v, err := strconv.Atoi(c.PostForm("horizon_days")); err == nil {
		req.HorizonDays = v
	}
	if v, err := strconv.Atoi(c.PostForm("confidence_pct")); err == nil {
		req.ConfidencePct = v
	}
	if v, err := strconv.Atoi(c.PostForm("orders_per_staff")); err == nil {
		req.Staffing.OrdersPerStaff = v
	}
	if v, err := strconv.Atoi(c.PostForm("min_staff")); err == nil {
		req.Staffing.MinStaff = v
	}
	if v, err := strconv.ParseFloat(c.PostForm("prep_time_factor"), 64); err == nil {
		req.Staffing.PrepTimeFactor = v
	}
	if roles, ok := c.GetPostFormArray("roles"); ok && len(roles) > 0 {
		req.Staffing.Roles = roles
	}
}

func (h *Handler) defaultStaffing() models.StaffingConfig {
	return models.StaffingConfig{
		OrdersPerStaff: h.cfg.Staffing.OrdersPerStaff,
		MinStaff:       h.cfg.Staffing.MinStaff,
		PrepTimeFactor: h.cfg.Staffing.PrepTimeFactor,
		Roles:          h.cfg.Staffing.Roles,
	}
}

// getAnalysis returns the full snapshot for a run
func (h *Handler) getAnalysis(c *gin.Context) {
	snap, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// getForecast returns only the forecast series
func (h *Handler) getForecast(c *gin.Context) {
	snap, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":         snap.RunID,
		"forecast":       snap.Forecast,
		"low_confidence": snap.LowConfidence,
		"peak_hours":     snap.PeakHours,
	})
}

// getIngredients returns only the ingredient forecast
func (h *Handler) getIngredients(c *gin.Context) {
	snap, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":      snap.RunID,
		"ingredients": snap.Ingredients,
	})
}

// getStaffing returns only the staffing plan
func (h *Handler) getStaffing(c *gin.Context) {
	snap, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":   snap.RunID,
		"staffing": snap.Staffing,
	})
}

type alertRequestBody struct {
	Type        string     `json:"type" binding:"required,oneof=peak_time inventory staffing"`
	Destination string     `json:"destination" binding:"required"`
	Threshold   *float64   `json:"threshold,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	TopN        int        `json:"top_n,omitempty"`
}

// requestAlert renders an alert from a run and enqueues it for dispatch
func (h *Handler) requestAlert(c *gin.Context) {
	var body alertRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	alertReq := &service.AlertRequest{
		RunID:       c.Param("id"),
		Type:        body.Type,
		Destination: body.Destination,
		Threshold:   body.Threshold,
		Date:        body.Date,
		TopN:        body.TopN,
	}

	rendered, err := h.alerts.RequestAlert(c.Request.Context(), alertReq)
	if err != nil {
		var renderErr *pipeline.RenderError
		if errors.As(err, &renderErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Alert cannot be rendered", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request alert", "details": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": alertReq.RunID,
		"type":   alertReq.Type,
		"body":   rendered,
	})
}

func (h *Handler) lookup(c *gin.Context) (*models.AnalysisSnapshot, bool) {
	snap, err := h.analysis.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis run not found", "details": err.Error()})
		return nil, false
	}
	return snap, true
}

func respondPipelineError(c *gin.Context, err error) {
	var formatErr *pipeline.DataFormatError
	var emptyErr *pipeline.EmptySeriesError
	switch {
	case errors.As(err, &formatErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Order data format error", "column": formatErr.Column, "details": err.Error()})
	case errors.As(err, &emptyErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No valid order rows to analyze", "details": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Analysis failed", "details": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
