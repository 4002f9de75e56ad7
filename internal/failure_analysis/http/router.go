package http

import "github.com/gin-gonic/gin"

// Register registers the failure analysis routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/reports", h.ListReports)
	rg.GET("/reports/:id", h.GetReport)
	rg.GET("/reports/:id/groups/:gid", h.GetGroup)
	rg.POST("/analyze", h.Analyze)

	rg.POST("/chat/sessions", h.CreateSession)
	rg.POST("/chat", h.Chat)
}
