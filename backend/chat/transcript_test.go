package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlankInputIsNoOp(t *testing.T) {
	tr := NewTranscript()
	assert.False(t, tr.AppendUser(""))
	assert.False(t, tr.AppendUser("   \t\n"))
	assert.Empty(t, tr.Messages())
	assert.False(t, tr.Pending())
}

func TestRoundTrip(t *testing.T) {
	tr := NewTranscript()
	assert.True(t, tr.AppendUser("show me all users"))
	assert.True(t, tr.Pending())

	tr.AppendReply("SELECT * FROM users;", "")
	msgs := tr.Messages()
	assert.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[0].Sender)
	assert.Equal(t, "show me all users", msgs[0].Text)
	assert.Equal(t, SenderBot, msgs[1].Sender)
	assert.False(t, msgs[1].IsResult)
	assert.False(t, tr.Pending())
}

func TestReplyWithResultBlock(t *testing.T) {
	tr := NewTranscript()
	tr.AppendUser("show me all users")
	tr.AppendReply("SELECT * FROM users;", `[{"id": 1}]`)

	msgs := tr.Messages()
	assert.Len(t, msgs, 3)
	assert.False(t, msgs[1].IsResult)
	assert.True(t, msgs[2].IsResult)
	assert.Equal(t, SenderBot, msgs[2].Sender)
}

func TestMessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.AppendUser("hello")
	msgs := tr.Messages()
	msgs[0].Text = "mutated"
	assert.Equal(t, "hello", tr.Messages()[0].Text)
}

func TestClear(t *testing.T) {
	tr := NewTranscript()
	tr.AppendUser("hello")
	tr.Clear()
	assert.Empty(t, tr.Messages())
	assert.False(t, tr.Pending())
}
