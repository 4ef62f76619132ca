package main

import (
	"net/http"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yieldguard/internal/config"
	"yieldguard/internal/data"
	"yieldguard/internal/pipeline"
	"yieldguard/pkg/utils"
)

var (
	logger *zap.Logger
	cfg    config.Config
)

func main() {
	logger = utils.Logger()
	defer logger.Sync()

	cfg = config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
		cfg = c
	}

	r := gin.Default()
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	api.Use(apiKeyMiddleware)
	api.POST("/analyze", handleAnalyze)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func apiKeyMiddleware(c *gin.Context) {
	key := os.Getenv("API_KEY")
	if key == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != key {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// handleAnalyze accepts a multipart CSV upload, runs the pipeline on it
// synchronously and returns the report; progress lines ride along in the
// report body for the caller's UI.
func handleAnalyze(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	ds, err := data.ReadCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid csv"})
		return
	}

	rep, err := pipeline.Run(ds, pipeline.Options{
		Trees:        cfg.Model.Trees,
		LearningRate: cfg.Model.LearningRate,
		Threshold:    cfg.Model.Threshold,
		MaxDepth:     cfg.Model.MaxDepth,
		Seed:         cfg.Model.Seed,
		Finance:      cfg.Finance.Assumptions(),
		Logger:       logger,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyDataset) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "dataset contains no rows"})
			return
		}
		logger.Error("pipeline run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}
	c.JSON(http.StatusOK, rep)
}
