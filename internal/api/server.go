package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"obscura/internal/container"
	"obscura/internal/domain/entity"
	"obscura/internal/infrastructure/storage"
)

const version = "0.1.0"

// Допустимые типы загрузок.
var (
	imageTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	videoTypes = map[string]bool{
		"video/mp4":       true,
		"video/quicktime": true,
	}
)

// Server — HTTP-поверхность сервиса анализа.
type Server struct {
	engine     *gin.Engine
	app        *container.Container
	policyMode string
	log        *zap.Logger
}

// NewServer создаёт сервер и регистрирует маршруты.
func NewServer(app *container.Container, policyMode string, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		app:        app,
		policyMode: policyMode,
		log:        log.Named("api"),
	}

	s.engine.Use(gin.Recovery(), s.requestLog)
	s.engine.GET("/healthz", s.healthz)
	s.engine.POST("/analyze/image", s.analyzeImage)
	s.engine.POST("/analyze/video", s.analyzeVideo)
	s.engine.GET("/reports/:id", s.getReport)

	return s
}

// Run запускает HTTP-сервер и блокируется до его остановки.
func (s *Server) Run(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler возвращает корневой http.Handler (используется в тестах).
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("took", time.Since(start)),
	)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"policy_mode": s.policyMode,
		"version":     version,
	})
}

// readUpload достаёт файл из формы и проверяет тип содержимого.
func (s *Server) readUpload(c *gin.Context, allowed map[string]bool) ([]byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "no file uploaded"})
		return nil, false
	}
	defer file.Close()

	if !allowed[header.Header.Get("Content-Type")] {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unsupported media type"})
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "failed to read upload"})
		return nil, false
	}
	return data, true
}

func (s *Server) analyzeImage(c *gin.Context) {
	data, ok := s.readUpload(c, imageTypes)
	if !ok {
		return
	}

	report, err := s.app.ImagePipeline.Analyze(c.Request.Context(), data)
	if err != nil {
		// Нечитаемый вход — ошибка клиента, а не деградация анализа.
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read input"})
		return
	}

	id := uuid.NewString()
	s.saveRecord(c, &entity.AnalysisRecord{ID: id, CreatedAt: time.Now(), Image: report})
	c.Header("X-Request-ID", id)
	c.JSON(http.StatusOK, report)
}

func (s *Server) analyzeVideo(c *gin.Context) {
	data, ok := s.readUpload(c, videoTypes)
	if !ok {
		return
	}

	report, err := s.app.VideoPipeline.Analyze(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read input"})
		return
	}

	id := uuid.NewString()
	s.saveRecord(c, &entity.AnalysisRecord{ID: id, CreatedAt: time.Now(), Video: report})
	c.Header("X-Request-ID", id)
	c.JSON(http.StatusOK, report)
}

func (s *Server) getReport(c *gin.Context) {
	rec, err := s.app.Reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "storage failure"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) saveRecord(c *gin.Context, rec *entity.AnalysisRecord) {
	if err := s.app.Reports.Save(c.Request.Context(), rec); err != nil {
		s.log.Warn("failed to save report", zap.String("id", rec.ID), zap.Error(err))
	}
}
