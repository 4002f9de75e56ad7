package http

import (
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/chat"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/report"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/service"
)

// Handler serves report artifacts, on-demand analysis and the chat layer.
type Handler struct {
	opts  service.Options
	store *report.Store
	chat  *chat.Service
}

// New creates a Handler. chatSvc may be nil, in which case chat routes answer 500.
func New(opts service.Options, chatSvc *chat.Service) *Handler {
	return &Handler{
		opts:  opts,
		store: opts.Store(),
		chat:  chatSvc,
	}
}

type analyzeResponse struct {
	Path     string          `json:"path"`
	Metadata domain.Metadata `json:"metadata"`
}

type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}
