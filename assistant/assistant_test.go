package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeConversation struct {
	replies []string
	err     error
	got     []string
}

func (c *fakeConversation) Send(ctx context.Context, message string) (string, error) {
	c.got = append(c.got, message)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", nil
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

type fakeChatModel struct {
	conversation *fakeConversation
	startErr     error
	instructions []string
}

func (m *fakeChatModel) StartChat(ctx context.Context, instruction string) (Conversation, error) {
	m.instructions = append(m.instructions, instruction)
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.conversation, nil
}

func TestSession_AskWithoutReport(t *testing.T) {
	conv := &fakeConversation{replies: []string{"Use descriptive titles.", "Sure."}}
	model := &fakeChatModel{conversation: conv}
	s := NewSession(model, zaptest.NewLogger(t))

	reply, err := s.Ask(context.Background(), "How do I improve titles?")
	require.NoError(t, err)
	assert.Equal(t, "Use descriptive titles.", reply)

	_, err = s.Ask(context.Background(), "Thanks")
	require.NoError(t, err)

	require.Len(t, model.instructions, 1, "conversation is reused")
	assert.Equal(t, Instructions(""), model.instructions[0])
	assert.Contains(t, model.instructions[0], "You do not have access to a specific website report yet")
	assert.Equal(t, []string{"How do I improve titles?", "Thanks"}, conv.got)
}

func TestSession_ReportContextResetsConversation(t *testing.T) {
	conv := &fakeConversation{replies: []string{"one", "two"}}
	model := &fakeChatModel{conversation: conv}
	s := NewSession(model, nil)

	_, err := s.Ask(context.Background(), "hello")
	require.NoError(t, err)

	s.SetReportContext("# Report\n\nTitle tags are missing.")
	assert.Equal(t, "# Report\n\nTitle tags are missing.", s.ReportContext())

	_, err = s.Ask(context.Background(), "What should I fix first?")
	require.NoError(t, err)

	require.Len(t, model.instructions, 2)
	assert.Contains(t, model.instructions[1], "REPORT CONTEXT:\n# Report\n\nTitle tags are missing.")
	assert.Contains(t, model.instructions[1], "Do not regenerate the report.")
}

func TestSession_EmptyReply(t *testing.T) {
	s := NewSession(&fakeChatModel{conversation: &fakeConversation{replies: []string{"  "}}}, nil)

	reply, err := s.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, NoResponseText, reply)
}

func TestSession_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		s := NewSession(nil, nil)
		_, err := s.Ask(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("session init", func(t *testing.T) {
		s := NewSession(&fakeChatModel{startErr: errors.New("boom")}, nil)
		_, err := s.Ask(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrSessionInit)
	})

	t.Run("chat failure keeps conversation", func(t *testing.T) {
		conv := &fakeConversation{err: errors.New("quota exceeded")}
		model := &fakeChatModel{conversation: conv}
		s := NewSession(model, nil)

		_, err := s.Ask(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrChatFailed)

		conv.err = nil
		conv.replies = []string{"recovered"}
		reply, err := s.Ask(context.Background(), "again")
		require.NoError(t, err)
		assert.Equal(t, "recovered", reply)
		assert.Len(t, model.instructions, 1)
	})
}

func TestSession_SendTranscript(t *testing.T) {
	conv := &fakeConversation{replies: []string{"Add schema markup."}}
	s := NewSession(&fakeChatModel{conversation: conv}, nil)

	msg := s.Send(context.Background(), "Any quick wins?")
	assert.Equal(t, RoleModel, msg.Role)
	assert.Equal(t, "Add schema markup.", msg.Text)
	assert.False(t, msg.Error)
	assert.NotEmpty(t, msg.ID)

	conv.err = errors.New("down")
	failed := s.Send(context.Background(), "And more?")
	assert.True(t, failed.Error)
	assert.Equal(t, ErrorReplyText, failed.Text)

	messages := s.Messages()
	require.Len(t, messages, 5)
	assert.Equal(t, GreetingText, messages[0].Text)
	assert.Equal(t, RoleUser, messages[1].Role)
	assert.Equal(t, "Any quick wins?", messages[1].Text)
	assert.Equal(t, msg, messages[2])
	assert.Equal(t, "And more?", messages[3].Text)
	assert.Equal(t, failed, messages[4])

	messages[0].Text = "mutated"
	assert.Equal(t, GreetingText, s.Messages()[0].Text)
}
