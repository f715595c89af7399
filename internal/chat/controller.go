package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docchat/internal/domain"
)

// Greeting opens every displayed conversation. It is rendered fresh by the
// presentation layer and never written to the persisted log.
const Greeting = "Hello! Upload your documents and ask me anything about their contents."

// errTemplate wraps a failed answer into a permanent assistant turn.
const errTemplate = "Sorry, I couldn't answer that: %s. Please try again."

// Controller owns the authoritative conversation log. It is the only writer:
// user turns, assistant turns and upload notices all enter the log here, and
// at most one question is in flight at any moment.
type Controller struct {
	asker  domain.Asker
	store  domain.HistoryStore
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	messages   []domain.Message
	busy       bool
	generation int
}

// Submission is the token for one accepted question. It pins the log
// generation at submit time so a clear that happens while the question is in
// flight can be detected when the answer arrives.
type Submission struct {
	ID         string
	Question   string
	generation int
}

// NewController builds a controller seeded with whatever the store holds.
func NewController(asker domain.Asker, store domain.HistoryStore, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		asker:    asker,
		store:    store,
		logger:   logger,
		now:      time.Now,
		messages: store.Load(),
	}
}

// Submit accepts one question. It returns nil without any state change when
// the trimmed text is empty or another question is still in flight.
// On acceptance the user turn is appended and persisted immediately and the
// controller goes busy until Resolve is called for the returned submission.
func (c *Controller) Submit(text string) *Submission {
	question := strings.TrimSpace(text)
	if question == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return nil
	}
	c.busy = true
	c.appendLocked(domain.Message{
		Sender:    domain.SenderUser,
		Content:   question,
		Sources:   []string{},
		Timestamp: c.now(),
	})
	sub := &Submission{ID: uuid.NewString(), Question: question, generation: c.generation}
	c.logger.Info("question submitted", zap.String("request_id", sub.ID))
	return sub
}

// Resolve folds the outcome of a submission back into the log and releases
// the busy flag. Success appends the answer, failure appends the error
// template with the reason; both become permanent turns. If the log was
// cleared after the submission was issued the result is discarded: the
// question it answers is no longer part of the conversation.
// Returns the appended message and whether it was kept.
func (c *Controller) Resolve(sub *Submission, answer domain.Answer, err error) (domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if sub.generation != c.generation {
		c.logger.Info("answer discarded after clear", zap.String("request_id", sub.ID))
		return domain.Message{}, false
	}
	msg := domain.Message{
		Sender:    domain.SenderAssistant,
		Sources:   []string{},
		Timestamp: c.now(),
	}
	if err != nil {
		msg.Content = fmt.Sprintf(errTemplate, err)
		c.logger.Warn("ask failed", zap.String("request_id", sub.ID), zap.Error(err))
	} else {
		msg.Content = answer.Text
		if answer.Sources != nil {
			msg.Sources = answer.Sources
		}
	}
	c.appendLocked(msg)
	return msg, true
}

// Ask performs the single backend call for a submission and resolves it.
func (c *Controller) Ask(ctx context.Context, sub *Submission) (domain.Message, bool) {
	answer, err := c.asker.Ask(ctx, sub.Question)
	return c.Resolve(sub, answer, err)
}

// Clear resets the conversation to empty and persists the empty log. It may
// be invoked while a question is in flight; the busy flag stays with the
// in-flight call and the eventual answer is dropped by Resolve.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.generation++
	c.persistLocked()
}

// Notice appends an assistant turn that did not come from the backend, such
// as the upload batch summary. Keeping it here preserves the rule that only
// the controller writes to the log.
func (c *Controller) Notice(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(domain.Message{
		Sender:    domain.SenderAssistant,
		Content:   text,
		Sources:   []string{},
		Timestamp: c.now(),
	})
}

// Busy reports whether a question is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Transcript returns a copy of the current log for rendering.
func (c *Controller) Transcript() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) appendLocked(msg domain.Message) {
	c.messages = append(c.messages, msg)
	c.persistLocked()
}

func (c *Controller) persistLocked() {
	if err := c.store.Save(c.messages); err != nil {
		c.logger.Warn("history save failed", zap.Error(err))
	}
}
