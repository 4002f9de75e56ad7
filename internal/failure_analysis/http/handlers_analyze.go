package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/service"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

// Analyze runs the pipeline against the configured results directory
func (h *Handler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := service.Run(ctx, h.opts)
	if err != nil {
		logging.FromContext(ctx, "analyze_http").Error("analyze", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analyze: " + err.Error()})
		return
	}
	if res.Report == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no failures"})
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{Path: res.Path, Metadata: res.Report.Metadata})
}
