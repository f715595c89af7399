package domain

import (
	"context"
	"time"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one turn in the conversation. Content is immutable once created;
// the log it lives in is append-only except for a full clear.
type Message struct {
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Sources   []string  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
}

// Document is a read-only projection of a file the backend has ingested.
type Document struct {
	Filename string  `json:"filename"`
	Type     string  `json:"type"`
	SizeMB   float64 `json:"size_mb"`
}

// Answer is the backend's response to a question.
type Answer struct {
	Text    string
	Sources []string
}

// ConnectionState reflects the latest backend health probe.
type ConnectionState string

const (
	StateHealthy     ConnectionState = "healthy"
	StateDegraded    ConnectionState = "degraded"
	StateUnreachable ConnectionState = "unreachable"
)

// Asker submits one question to the question-answering collaborator.
// Exactly one attempt per call; no retries.
type Asker interface {
	Ask(ctx context.Context, question string) (Answer, error)
}

// HistoryStore mirrors the conversation log in durable storage. Load never
// fails: a missing or unreadable value yields an empty log. Save is
// best-effort; callers treat errors as diagnostics only.
type HistoryStore interface {
	Load() []Message
	Save(messages []Message) error
}

// DocumentLister fetches the full list of backend-known documents.
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}
