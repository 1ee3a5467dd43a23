package models

// AssistantMessage is one turn in the operator's conversation history.
type AssistantMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AssistantRequest is the body of POST /api/assistant.
type AssistantRequest struct {
	Message      string             `json:"message"`
	Conversation []AssistantMessage `json:"conversation"`
}

// AssistantResponse carries the model's final natural-language answer.
type AssistantResponse struct {
	Response string `json:"response"`
}
