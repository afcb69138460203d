package api

import (
	"encoding/json"
	"time"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// AISettings are the per-project generation defaults.
type AISettings struct {
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
}

// Project is the top-level grouping entity owning chats and context files.
type Project struct {
	ID                  string      `json:"_id" yaml:"id"`
	Name                string      `json:"name" yaml:"name"`
	Description         string      `json:"description,omitempty" yaml:"description,omitempty"`
	ContextInstructions string      `json:"contextInstructions,omitempty" yaml:"contextInstructions,omitempty"`
	ContextFiles        []string    `json:"contextFiles" yaml:"contextFiles"`
	AIProvider          string      `json:"aiProvider,omitempty" yaml:"aiProvider,omitempty"`
	AISettings          *AISettings `json:"aiSettings,omitempty" yaml:"aiSettings,omitempty"`
	CreatedAt           time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Name                string      `json:"name"`
	Description         string      `json:"description,omitempty"`
	ContextInstructions string      `json:"contextInstructions,omitempty"`
	AIProvider          string      `json:"aiProvider,omitempty"`
	AISettings          *AISettings `json:"aiSettings,omitempty"`
}

// Chat is a conversation thread scoped to one project.
type Chat struct {
	ID                  string    `json:"_id" yaml:"id"`
	ProjectID           string    `json:"projectId" yaml:"projectId"`
	Name                string    `json:"name" yaml:"name"`
	Description         string    `json:"description,omitempty" yaml:"description,omitempty"`
	ContextInstructions string    `json:"contextInstructions,omitempty" yaml:"contextInstructions,omitempty"`
	CreatedAt           time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// CreateChatRequest is the body of POST /chats.
type CreateChatRequest struct {
	ProjectID           string `json:"projectId"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	ContextInstructions string `json:"contextInstructions,omitempty"`
}

// Usage is the token accounting reported for a generation.
type Usage struct {
	PromptTokens     int `json:"promptTokens" yaml:"promptTokens"`
	CompletionTokens int `json:"completionTokens" yaml:"completionTokens"`
	TotalTokens      int `json:"totalTokens" yaml:"totalTokens"`
}

// MessageMetadata describes how an assistant message was produced.
type MessageMetadata struct {
	Usage        *Usage   `json:"usage,omitempty" yaml:"usage,omitempty"`
	Provider     string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model        string   `json:"model,omitempty" yaml:"model,omitempty"`
	ContextFiles []string `json:"contextFiles,omitempty" yaml:"contextFiles,omitempty"`
}

// Message is one entry of a chat transcript.
type Message struct {
	ID        string           `json:"_id" yaml:"id"`
	ChatID    string           `json:"chatId" yaml:"chatId"`
	Role      Role             `json:"role" yaml:"role"`
	Content   string           `json:"content" yaml:"content"`
	Metadata  *MessageMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt time.Time        `json:"createdAt" yaml:"createdAt"`
}

// ContextFile is a user-supplied document attached to a project.
type ContextFile struct {
	ID           string    `json:"_id" yaml:"id"`
	ProjectID    string    `json:"projectId" yaml:"projectId"`
	Filename     string    `json:"filename" yaml:"filename"`
	OriginalName string    `json:"originalname" yaml:"originalname"`
	MimeType     string    `json:"mimetype" yaml:"mimetype"`
	Size         int64     `json:"size" yaml:"size"`
	FilePath     string    `json:"filePath" yaml:"filePath"`
	ContextName  string    `json:"contextName" yaml:"contextName"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identity field; older
// backends emit the latter for context files.
func (f *ContextFile) UnmarshalJSON(b []byte) error {
	type alias ContextFile
	aux := struct {
		*alias
		AltID string `json:"id"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if f.ID == "" {
		f.ID = aux.AltID
	}
	return nil
}

// GenerateRequest is the body of POST /generate. ChatID persists the exchange
// into a chat; without it the generation is a scratch request.
type GenerateRequest struct {
	Prompt       string   `json:"prompt"`
	ChatID       string   `json:"chatId,omitempty"`
	MaxTokens    *int     `json:"maxTokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	ContextFiles []string `json:"contextFiles,omitempty"`
}

// Generation is the model output nested under "response".
type Generation struct {
	Content  string `json:"content" yaml:"content"`
	Usage    *Usage `json:"usage,omitempty" yaml:"usage,omitempty"`
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
}

// GenerateResult is the data of a successful POST /generate.
type GenerateResult struct {
	Response  Generation `json:"response" yaml:"response"`
	MessageID string     `json:"messageId,omitempty" yaml:"messageId,omitempty"`
}

// Envelope wraps every backend response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}
