package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

const maxToolRounds = 5

const systemInstruction = `You are an expert QA analyst agent. Your task is to answer user questions about test failure reports by using the provided tools.

Your thinking process MUST be:
1. Analyze the user's question to understand what information is needed.
2. If you don't know what reports are available, your first step is ALWAYS to call list_reports to see what exists.
3. Once you have the list of reports, use read_report(timestamp) to get the content of the specific report(s) you need.
4. After gathering all necessary data, synthesize it into a final, helpful answer for the user.`

const primedReply = "Understood. I am ready to analyze test failure reports. How can I help?"

var ErrTooManyToolRounds = errors.New("chat: model kept requesting tools")

type Service struct {
	client   Completer
	sessions SessionStore
	tools    *Toolbox
}

// NewService wires a chat service; client may be nil when no LLM is configured.
func NewService(client Completer, sessions SessionStore, tools *Toolbox) *Service {
	return &Service{client: client, sessions: sessions, tools: tools}
}

func (s *Service) Configured() bool { return s.client != nil }

// NewSession stores a primed history under a fresh id.
func (s *Service) NewSession(ctx context.Context) (string, error) {
	id := uuid.New().String()
	if err := s.sessions.Save(ctx, id, primedHistory()); err != nil {
		return "", err
	}
	return id, nil
}

// Ask answers question within sessionID, creating the session on first use.
// The history is only saved when the model produced an answer.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (string, error) {
	if s.client == nil {
		return "", domain.ErrLLMNotConfigured
	}
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("chat: question and session id are required")
	}
	log := logging.FromContext(ctx, "chat")

	history, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		log.Infof("ask", "creating and priming new chat session %s", sessionID)
		history = primedHistory()
	} else if err != nil {
		return "", err
	}

	history = append(history, Message{Role: RoleUser, Content: question})
	defs := s.tools.Definitions()

	for round := 0; round < maxToolRounds; round++ {
		reply, err := s.client.Complete(ctx, history, defs)
		if err != nil {
			log.Error("ask", err)
			return "", err
		}
		history = append(history, reply)

		if len(reply.ToolCalls) == 0 {
			if err := s.sessions.Save(ctx, sessionID, history); err != nil {
				return "", err
			}
			return reply.Content, nil
		}

		for _, call := range reply.ToolCalls {
			log.Infof("ask", "tool call %s", call.Function.Name)
			history = append(history, Message{
				Role:       RoleTool,
				ToolCallID: call.ID,
				Content:    s.tools.Call(call.Function.Name, call.Function.Arguments),
			})
		}
	}
	return "", ErrTooManyToolRounds
}

func primedHistory() []Message {
	return []Message{
		{Role: RoleSystem, Content: systemInstruction},
		{Role: RoleAssistant, Content: primedReply},
	}
}
