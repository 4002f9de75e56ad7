package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

// ListReports returns report ids, newest first
func (h *Handler) ListReports(c *gin.Context) {
	ids, err := h.store.List()
	if err != nil {
		logging.FromContext(c.Request.Context(), "reports_http").Error("list", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, ids)
}

// GetReport streams the stored artifact as-is
func (h *Handler) GetReport(c *gin.Context) {
	raw, err := h.store.LoadRaw(c.Param("id"))
	if err != nil {
		h.reportError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// GetGroup returns one group summary of a report
func (h *Handler) GetGroup(c *gin.Context) {
	gid, err := strconv.Atoi(c.Param("gid"))
	if err != nil || gid < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group id must be a positive integer"})
		return
	}

	rep, err := h.store.Load(c.Param("id"))
	if err != nil {
		h.reportError(c, err)
		return
	}

	g, ok := rep.Group(gid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) reportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidReportID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
	case errors.Is(err, domain.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
	default:
		logging.FromContext(c.Request.Context(), "reports_http").Error("load", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read report"})
	}
}
