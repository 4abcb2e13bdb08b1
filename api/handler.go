// Package api exposes the detection and injection engines over HTTP.
package api

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harlequix/parcheck/channel"
	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/injection"
	"github.com/harlequix/parcheck/internal/encoding"
	log "github.com/harlequix/parcheck/log"
)

type GenerateRequest struct {
	Method  string `json:"method" binding:"required"`
	Message string `json:"message"`
}

type GenerateResponse struct {
	Method      string `json:"method"`
	ControlInfo string `json:"control_info"`
}

type VerifyRequest struct {
	Method      string `json:"method" binding:"required"`
	Message     string `json:"message"`
	ControlInfo string `json:"control_info"`
}

type VerifyResponse struct {
	Intact   bool   `json:"intact"`
	Computed string `json:"computed"`
}

type InjectRequest struct {
	Type    string `json:"type" binding:"required"`
	Message string `json:"message"`
	Seed    *int64 `json:"seed"`
}

type InjectResponse struct {
	Type      string `json:"type"`
	Original  string `json:"original"`
	Corrupted string `json:"corrupted"`
}

type SimulateRequest struct {
	Method  string `json:"method" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Message string `json:"message"`
	Seed    *int64 `json:"seed"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	opts   detection.Options
	params injection.Params
	mu     sync.Mutex
	src    *rand.Rand
	logger *log.Logger
}

func NewHandler(opts detection.Options, params injection.Params, seed int64) *Handler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Handler{
		opts:   opts,
		params: params,
		src:    rand.New(rand.NewSource(seed)),
		logger: log.NewLogger("api"),
	}
}

// NewRouter builds the gin engine with all routes under /api/v1.
func NewRouter(h *Handler, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
	}
	router.Use(cors.New(config))

	api := router.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/methods", h.Methods)
		api.POST("/generate", h.Generate)
		api.POST("/verify", h.Verify)
		api.POST("/inject", h.Inject)
		api.POST("/simulate", h.Simulate)
	}
	return router
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (h *Handler) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"methods":    detection.Methods(),
		"injections": injection.Types(),
	})
}

func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	d, err := detection.Lookup(req.Method, h.opts)
	if err != nil {
		h.fail(c, status(err), err)
		return
	}
	control, err := d.Generate(req.Message)
	if err != nil {
		h.fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{Method: string(d.Method()), ControlInfo: control})
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	d, err := detection.Lookup(req.Method, h.opts)
	if err != nil {
		h.fail(c, status(err), err)
		return
	}
	computed, intact, err := detection.Check(d, req.Message, req.ControlInfo)
	if err != nil {
		h.fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, VerifyResponse{Intact: intact, Computed: computed})
}

func (h *Handler) Inject(c *gin.Context) {
	var req InjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	inject, err := injection.Lookup(req.Type, h.params)
	if err != nil {
		h.fail(c, status(err), err)
		return
	}
	corrupted := inject(h.source(req.Seed), req.Message)
	h.logger.WithField("injection", req.Type).WithField("original", req.Message).WithField("corrupted", corrupted).Debug("inject")
	c.JSON(http.StatusOK, InjectResponse{Type: req.Type, Original: req.Message, Corrupted: corrupted})
}

func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	trace, err := channel.Simulate(req.Method, req.Type, req.Message, h.opts, h.params, h.source(req.Seed))
	if err != nil {
		h.fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

// source returns a private generator for a seeded request, otherwise the
// shared one behind a lock.
func (h *Handler) source(seed *int64) injection.Source {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return &sharedSource{h: h}
}

type sharedSource struct {
	h *Handler
}

func (s *sharedSource) Intn(n int) int {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	return s.h.src.Intn(n)
}

func (h *Handler) fail(c *gin.Context, code int, err error) {
	h.logger.WithError(err).WithField("path", c.FullPath()).Warn("request failed")
	c.JSON(code, ErrorResponse{Success: false, Message: err.Error()})
}

func status(err error) int {
	switch {
	case errors.Is(err, encoding.ErrEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, detection.ErrUnknownMethod), errors.Is(err, injection.ErrUnknownInjection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
