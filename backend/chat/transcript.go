package chat

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"sqlify/backend/models"
)

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Transcript is the in-memory history behind the chat page. It lives as
// long as the page does; nothing here is persisted anywhere.
type Transcript struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	pending  bool
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// AppendUser records the outgoing question and marks a reply outstanding.
// Empty or whitespace-only input is a no-op and returns false.
func (t *Transcript) AppendUser(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, models.ChatMessage{
		ID:     uuid.NewString(),
		Sender: SenderUser,
		Text:   text,
	})
	t.pending = true
	return true
}

// AppendReply records the bot's answer and, when the reply carried
// structured data, exactly one trailing result block.
func (t *Transcript) AppendReply(text, result string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, models.ChatMessage{
		ID:     uuid.NewString(),
		Sender: SenderBot,
		Text:   text,
	})
	if result != "" {
		t.messages = append(t.messages, models.ChatMessage{
			ID:       uuid.NewString(),
			Sender:   SenderBot,
			Text:     result,
			IsResult: true,
		})
	}
	t.pending = false
}

// Messages returns a copy of the transcript in insertion order.
func (t *Transcript) Messages() []models.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Pending reports whether a reply is outstanding; the page disables the
// submit action while it is.
func (t *Transcript) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Clear empties the transcript, the page-unload analog.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
	t.pending = false
}
