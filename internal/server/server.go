// Package server exposes an Analyzer as the collaborator HTTP API that the
// http analyzer and other clients talk to.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/assay/internal/analyze"
	"github.com/ppiankov/assay/internal/logging"
	"github.com/ppiankov/assay/internal/model"
	"github.com/ppiankov/assay/internal/validate"
)

// MsgMethodNotAllowed is returned for known paths with the wrong method
const MsgMethodNotAllowed = "Method not allowed"

// Server serves analysis requests
type Server struct {
	analyzer      analyze.Analyzer
	validateReply bool
	router        *gin.Engine
	httpServer    *http.Server
}

// New creates a server around analyzer
func New(analyzer analyze.Analyzer, cfg model.ServerConfig) *Server {
	s := &Server{
		analyzer:      analyzer,
		validateReply: cfg.ValidateReply,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = analyze.MaxImageBytes + 1<<20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/analyze", s.analyzeURL)
		api.POST("/analyze-screenshot", s.analyzeScreenshot)
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, analyze.Error{Message: MsgMethodNotAllowed})
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	log := logging.New("server")
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// analyzeURL handles POST /api/analyze
func (s *Server) analyzeURL(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, analyze.Error{Message: analyze.MsgURLRequired})
		return
	}
	s.respond(c, model.URLRef(req.URL))
}

// analyzeScreenshot handles POST /api/analyze-screenshot. The upload is
// spooled to a temp file so the analyzer sees an ordinary file handle.
func (s *Server) analyzeScreenshot(c *gin.Context) {
	header, err := c.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, analyze.Error{Message: analyze.MsgScreenshotRequired})
		return
	}
	if header.Size > analyze.MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, analyze.Error{Message: analyze.ErrImageTooLarge.Error()})
		return
	}

	tmp, err := os.CreateTemp("", "assay-screenshot-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, analyze.Error{Message: "Failed to store screenshot"})
		return
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(path) }()

	if err := c.SaveUploadedFile(header, path); err != nil {
		c.JSON(http.StatusInternalServerError, analyze.Error{Message: "Failed to store screenshot"})
		return
	}
	s.respond(c, model.ImageRef(path))
}

func (s *Server) respond(c *gin.Context, ref model.ContentRef) {
	log := logging.New("server")

	raw, err := s.analyzer.Analyze(c.Request.Context(), ref)
	if err != nil {
		status, body := errorResponse(err)
		log.Warn("analysis failed", "ref", ref.String(), "status", status, "err", err)
		c.JSON(status, body)
		return
	}

	if s.validateReply {
		if _, err := validate.ValidateReport(raw); err != nil {
			log.Error("analyzer returned an invalid report", "ref", ref.String(), "err", err)
			c.JSON(http.StatusBadGateway, analyze.Error{Message: "Failed to analyze article"})
			return
		}
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// errorResponse maps an analyzer error to a status and {message,type} body.
// Gate and input errors are the client's fault; everything else is ours.
func errorResponse(err error) (int, analyze.Error) {
	if aerr, ok := analyze.AsError(err); ok {
		return http.StatusBadRequest, *aerr
	}
	switch {
	case errors.Is(err, analyze.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, analyze.Error{Message: err.Error()}
	case errors.Is(err, analyze.ErrNotImage), errors.Is(err, analyze.ErrUnsupportedContent):
		return http.StatusBadRequest, analyze.Error{Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, analyze.Error{Message: "Analysis timed out"}
	}
	return http.StatusInternalServerError, analyze.Error{Message: "Failed to analyze article"}
}

func requestLogger() gin.HandlerFunc {
	log := logging.New("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
