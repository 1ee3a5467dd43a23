package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"bureau-backend/internal/llm"
	"bureau-backend/internal/metrics"
	"bureau-backend/internal/models"
)

// maxToolRounds bounds the tool-calling loop so a confused model cannot spin
// forever against the database or run up API cost.
const maxToolRounds = 10

// maxHistoryTurns is how much prior conversation is replayed to the model.
const maxHistoryTurns = 10

// ErrToolLoopExceeded is returned when the model keeps requesting tools past
// the round cap.
var ErrToolLoopExceeded = errors.New("assistant exceeded maximum tool rounds")

const systemPrompt = `You are the operations assistant for an AI speaker bureau.
You help operators manage the sales pipeline through the available tools:
listing and updating deals, creating deals, managing projects, searching the
speaker roster and logging calls. Deal statuses are: lead, qualified,
proposal, negotiation, won, lost. Project statuses are: invoicing, planning,
active, completed, cancelled. Marking a deal won automatically creates its
delivery project. Always confirm destructive actions in your reply. Answer
concisely in plain language.`

// CallLogStore is the slice of the call-log repository the assistant needs.
type CallLogStore interface {
	Create(ctx context.Context, cl *models.CallLog) error
}

// AssistantService runs the operator-facing conversational loop. Every tool
// is a thin adapter onto the same services the REST handlers use; in
// particular update_deal_status goes through the DealService transition
// engine, so won-entry side effects fire here too.
type AssistantService struct {
	llm      llm.ChatClient
	model    string
	deals    *DealService
	projects *ProjectService
	speakers *SpeakerService
	calls    CallLogStore
}

func NewAssistantService(client llm.ChatClient, model string, deals *DealService, projects *ProjectService, speakers *SpeakerService, calls CallLogStore) *AssistantService {
	return &AssistantService{
		llm:      client,
		model:    model,
		deals:    deals,
		projects: projects,
		speakers: speakers,
		calls:    calls,
	}
}

// Chat runs one operator utterance through the tool-calling loop and returns
// the model's final natural-language reply.
func (s *AssistantService) Chat(ctx context.Context, req *models.AssistantRequest) (string, error) {
	history := req.Conversation
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := []llm.ChatMessage{{Role: "system", Content: systemPrompt}}
	for _, turn := range history {
		messages = append(messages, llm.ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: req.Message})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.llm.ChatCompletion(ctx, &llm.ChatRequest{
			Model:    s.model,
			Messages: messages,
			Tools:    toolDefinitions,
		})
		if err != nil {
			return "", err
		}

		reply := resp.Choices[0].Message
		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    s.executeTool(ctx, call.Function.Name, call.Function.Arguments),
			})
		}
	}

	return "", ErrToolLoopExceeded
}

// executeTool runs one tool and serializes the result for the model. Errors
// are wrapped as {"error": ...} tool results rather than raised, so the
// model can explain the failure to the operator in its own words.
func (s *AssistantService) executeTool(ctx context.Context, name, arguments string) string {
	result, err := s.dispatchTool(ctx, name, []byte(arguments))
	if err != nil {
		metrics.AssistantToolCallsTotal.WithLabelValues(name, "error").Inc()
		log.Printf("[Assistant] Tool %s failed: %v", name, err)
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload)
	}

	metrics.AssistantToolCallsTotal.WithLabelValues(name, "ok").Inc()
	payload, err := json.Marshal(result)
	if err != nil {
		return `{"error": "failed to serialize tool result"}`
	}
	return string(payload)
}

func (s *AssistantService) dispatchTool(ctx context.Context, name string, args []byte) (interface{}, error) {
	switch name {
	case "get_deals":
		return s.deals.ListDeals(ctx)

	case "update_deal_status":
		var in struct {
			DealID int    `json:"deal_id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.deals.UpdateStatus(ctx, in.DealID, models.DealStatus(in.Status))

	case "delete_deal":
		var in struct {
			DealID int `json:"deal_id"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if err := s.deals.DeleteDeal(ctx, in.DealID); err != nil {
			return nil, err
		}
		return map[string]string{"result": fmt.Sprintf("deal %d deleted", in.DealID)}, nil

	case "create_deal":
		var in models.CreateDealRequest
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.deals.CreateDeal(ctx, &in)

	case "get_projects":
		return s.projects.ListProjects(ctx)

	case "update_project_status":
		var in struct {
			ProjectID int    `json:"project_id"`
			Status    string `json:"status"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.projects.UpdateStatus(ctx, in.ProjectID, models.ProjectStatus(in.Status))

	case "delete_project":
		var in struct {
			ProjectID int `json:"project_id"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if err := s.projects.DeleteProject(ctx, in.ProjectID); err != nil {
			return nil, err
		}
		return map[string]string{"result": fmt.Sprintf("project %d deleted", in.ProjectID)}, nil

	case "get_speakers":
		var in struct {
			Query string `json:"query"`
		}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		return s.speakers.SearchSpeakers(ctx, in.Query)

	case "log_call":
		var in models.CreateCallLogRequest
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		calledAt := time.Now()
		if in.CalledAt != nil {
			calledAt = *in.CalledAt
		}
		cl := &models.CallLog{
			DealID:     in.DealID,
			ClientName: in.ClientName,
			Summary:    in.Summary,
			Outcome:    in.Outcome,
			LoggedBy:   in.LoggedBy,
			CalledAt:   calledAt,
		}
		if err := s.calls.Create(ctx, cl); err != nil {
			return nil, err
		}
		return cl, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

var toolDefinitions = []llm.Tool{
	toolDef("get_deals", "List all deals in the pipeline with their statuses and values.",
		`{"type":"object","properties":{}}`),
	toolDef("update_deal_status", "Change the pipeline status of a deal. Setting status to won creates the delivery project.",
		`{"type":"object","properties":{"deal_id":{"type":"integer"},"status":{"type":"string","enum":["lead","qualified","proposal","negotiation","won","lost"]}},"required":["deal_id","status"]}`),
	toolDef("delete_deal", "Permanently delete a deal.",
		`{"type":"object","properties":{"deal_id":{"type":"integer"}},"required":["deal_id"]}`),
	toolDef("create_deal", "Create a new deal in the pipeline.",
		`{"type":"object","properties":{"client_name":{"type":"string"},"client_email":{"type":"string"},"client_phone":{"type":"string"},"company":{"type":"string"},"event_title":{"type":"string"},"event_location":{"type":"string"},"event_type":{"type":"string"},"attendee_count":{"type":"integer"},"budget_range":{"type":"string"},"deal_value":{"type":"number"},"status":{"type":"string"},"priority":{"type":"string"},"source":{"type":"string"},"notes":{"type":"string"},"speaker_requested":{"type":"string"}},"required":["client_name","event_title"]}`),
	toolDef("get_projects", "List all delivery projects.",
		`{"type":"object","properties":{}}`),
	toolDef("update_project_status", "Change the delivery status of a project.",
		`{"type":"object","properties":{"project_id":{"type":"integer"},"status":{"type":"string","enum":["invoicing","planning","active","completed","cancelled"]}},"required":["project_id","status"]}`),
	toolDef("delete_project", "Permanently delete a project.",
		`{"type":"object","properties":{"project_id":{"type":"integer"}},"required":["project_id"]}`),
	toolDef("get_speakers", "Search the speaker roster by name or topic. Empty query lists all active speakers.",
		`{"type":"object","properties":{"query":{"type":"string"}}}`),
	toolDef("log_call", "Record a call with a client, optionally linked to a deal.",
		`{"type":"object","properties":{"deal_id":{"type":"integer"},"client_name":{"type":"string"},"summary":{"type":"string"},"outcome":{"type":"string","enum":["connected","voicemail","no_answer","follow_up"]},"logged_by":{"type":"string"}},"required":["client_name","summary"]}`),
}

func toolDef(name, description, schema string) llm.Tool {
	return llm.Tool{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  json.RawMessage(schema),
		},
	}
}
