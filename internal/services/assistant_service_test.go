package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"bureau-backend/internal/llm"
	"bureau-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChatClient replays canned responses and records every request.
type scriptedChatClient struct {
	responses []*llm.ChatResponse
	requests  []*llm.ChatRequest
	err       error
}

func (c *scriptedChatClient) ChatCompletion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	if len(c.requests) > len(c.responses) {
		return nil, fmt.Errorf("unexpected request %d", len(c.requests))
	}
	return c.responses[len(c.requests)-1], nil
}

func textResponse(content string) *llm.ChatResponse {
	return &llm.ChatResponse{Choices: []llm.Choice{{
		Message:      llm.ChatMessage{Role: "assistant", Content: content},
		FinishReason: "stop",
	}}}
}

func toolResponse(callID, name, arguments string) *llm.ChatResponse {
	return &llm.ChatResponse{Choices: []llm.Choice{{
		Message: llm.ChatMessage{
			Role: "assistant",
			ToolCalls: []llm.ToolCall{{
				ID:   callID,
				Type: "function",
				Function: llm.FunctionCall{Name: name, Arguments: arguments},
			}},
		},
		FinishReason: "tool_calls",
	}}}
}

type fakeCallLogStore struct {
	created []*models.CallLog
}

func (s *fakeCallLogStore) Create(ctx context.Context, cl *models.CallLog) error {
	cl.ID = len(s.created) + 1
	s.created = append(s.created, cl)
	return nil
}

func newTestAssistant(client llm.ChatClient) (*AssistantService, *DealService, *fakeProjectStore, *fakeCallLogStore) {
	deals := newFakeDealStore()
	projects := newFakeProjectStore()
	dealSvc := NewDealService(deals, projects, NewNotificationService(&recordingNotifier{}))
	calls := &fakeCallLogStore{}
	svc := NewAssistantService(client, "gpt-4o", dealSvc, nil, nil, calls)
	return svc, dealSvc, projects, calls
}

func TestChatDirectAnswer(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{
		textResponse("The pipeline has 3 open deals."),
	}}
	svc, _, _, _ := newTestAssistant(client)

	reply, err := svc.Chat(context.Background(), &models.AssistantRequest{
		Message: "How many open deals do we have?",
	})
	require.NoError(t, err)
	assert.Equal(t, "The pipeline has 3 open deals.", reply)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "gpt-4o", req.Model)
	assert.NotEmpty(t, req.Tools)
	require.GreaterOrEqual(t, len(req.Messages), 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	last := req.Messages[len(req.Messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "How many open deals do we have?", last.Content)
}

func TestChatToolRoundAppendsToolResult(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{
		toolResponse("call_1", "get_deals", `{}`),
		textResponse("You have one deal: Acme Corp."),
	}}
	svc, dealSvc, _, _ := newTestAssistant(client)
	seedDeal(t, dealSvc, 10000)

	reply, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "List deals"})
	require.NoError(t, err)
	assert.Equal(t, "You have one deal: Acme Corp.", reply)

	require.Len(t, client.requests, 2)
	second := client.requests[1].Messages

	// The second round carries the assistant's tool call plus the result.
	toolMsg := second[len(second)-1]
	assert.Equal(t, "tool", toolMsg.Role)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)

	var deals []models.Deal
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &deals))
	require.Len(t, deals, 1)
	assert.Equal(t, "Acme Corp", deals[0].ClientName)
}

func TestChatUpdateDealStatusRunsTransitionEngine(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{
		toolResponse("call_1", "update_deal_status", `{"deal_id": 1, "status": "won"}`),
		textResponse("Done, deal 1 is won and its project was created."),
	}}
	svc, dealSvc, projects, _ := newTestAssistant(client)
	seedDeal(t, dealSvc, 10000)

	_, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "Mark deal 1 won"})
	require.NoError(t, err)

	// The tool went through the same fan-out as the REST path.
	require.Len(t, projects.created, 1)
	assert.InDelta(t, 2000.0, projects.created[0].CommissionAmount, 1e-9)

	toolMsg := client.requests[1].Messages[len(client.requests[1].Messages)-1]
	var result models.DealUpdateResult
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &result))
	assert.True(t, result.ProjectCreated)
}

func TestChatToolErrorIsReportedToModel(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{
		toolResponse("call_1", "update_deal_status", `{"deal_id": 999, "status": "won"}`),
		textResponse("I could not find deal 999."),
	}}
	svc, _, _, _ := newTestAssistant(client)

	reply, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "Mark deal 999 won"})
	require.NoError(t, err)
	assert.Equal(t, "I could not find deal 999.", reply)

	toolMsg := client.requests[1].Messages[len(client.requests[1].Messages)-1]
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &payload))
	assert.Contains(t, payload["error"], "not found")
}

func TestChatUnknownToolIsReportedToModel(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{
		toolResponse("call_1", "send_invoice", `{}`),
		textResponse("That action is not available."),
	}}
	svc, _, _, _ := newTestAssistant(client)

	reply, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "Send an invoice"})
	require.NoError(t, err)
	assert.Equal(t, "That action is not available.", reply)

	toolMsg := client.requests[1].Messages[len(client.requests[1].Messages)-1]
	assert.Contains(t, toolMsg.Content, "unknown tool")
}

func TestChatLogCallTool(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{
		toolResponse("call_1", "log_call",
			`{"client_name": "Acme Corp", "summary": "Discussed keynote slot", "outcome": "connected"}`),
		textResponse("Logged the call with Acme Corp."),
	}}
	svc, _, _, calls := newTestAssistant(client)

	_, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "Log my call with Acme"})
	require.NoError(t, err)

	require.Len(t, calls.created, 1)
	assert.Equal(t, "Acme Corp", calls.created[0].ClientName)
	assert.False(t, calls.created[0].CalledAt.IsZero())
}

func TestChatToolLoopCap(t *testing.T) {
	// The model never stops asking for tools.
	responses := make([]*llm.ChatResponse, maxToolRounds)
	for i := range responses {
		responses[i] = toolResponse(fmt.Sprintf("call_%d", i), "get_deals", `{}`)
	}
	client := &scriptedChatClient{responses: responses}
	svc, _, _, _ := newTestAssistant(client)

	_, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "Loop forever"})
	require.ErrorIs(t, err, ErrToolLoopExceeded)
	assert.Len(t, client.requests, maxToolRounds)
}

func TestChatHistoryTruncation(t *testing.T) {
	client := &scriptedChatClient{responses: []*llm.ChatResponse{textResponse("ok")}}
	svc, _, _, _ := newTestAssistant(client)

	history := make([]models.AssistantMessage, 15)
	for i := range history {
		history[i] = models.AssistantMessage{Role: "user", Content: fmt.Sprintf("turn %d", i)}
	}

	_, err := svc.Chat(context.Background(), &models.AssistantRequest{
		Message:      "latest",
		Conversation: history,
	})
	require.NoError(t, err)

	// system + last 10 history turns + current message
	require.Len(t, client.requests, 1)
	assert.Len(t, client.requests[0].Messages, 12)
	assert.Equal(t, "turn 5", client.requests[0].Messages[1].Content)
}

func TestChatLLMErrorPropagates(t *testing.T) {
	client := &scriptedChatClient{err: errors.New("api quota exhausted")}
	svc, _, _, _ := newTestAssistant(client)

	_, err := svc.Chat(context.Background(), &models.AssistantRequest{Message: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}
