package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrMissingAPIKey is returned when no model credential was configured.
	ErrMissingAPIKey = errors.New("API key is missing")

	// ErrSessionInit is returned when a conversation could not be opened.
	ErrSessionInit = errors.New("failed to initialize chat session")

	// ErrChatFailed replaces any model error raised while answering a message.
	ErrChatFailed = errors.New("failed to get response from AI assistant")
)

// Transcript texts
const (
	GreetingText   = "Hi! I'm your SEO Assistant. I can answer general SEO questions or help you analyze a specific report once it is generated. How can I help today?"
	NoResponseText = "I didn't receive a response. Please try again."
	ErrorReplyText = "Sorry, I encountered an error answering that. Please try again."
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of the conversation transcript
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Error     bool      `json:"error,omitempty"`
}

// Conversation is an open chat with the hosted model
type Conversation interface {
	Send(ctx context.Context, message string) (string, error)
}

// ChatModel opens conversations seeded with a system instruction
type ChatModel interface {
	StartChat(ctx context.Context, instruction string) (Conversation, error)
}

// Session holds the single conversation of the service and the report it is
// grounded in. Sends are serialised.
type Session struct {
	model  ChatModel
	logger *zap.Logger
	now    func() time.Time

	sendMu sync.Mutex

	mu            sync.Mutex
	reportContext string
	conversation  Conversation
	messages      []ChatMessage
}

// NewSession creates a Session. A nil model makes every Ask fail with
// ErrMissingAPIKey.
func NewSession(model ChatModel, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		model:  model,
		logger: logger,
		now:    time.Now,
	}
	s.messages = []ChatMessage{s.newMessage(RoleModel, GreetingText)}
	return s
}

// Configured reports whether a model credential is available
func (s *Session) Configured() bool {
	return s.model != nil
}

// SetReportContext stores the text of the latest report and drops the open
// conversation so the next message starts one grounded in that report.
func (s *Session) SetReportContext(markdown string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reportContext = markdown
	s.conversation = nil
	s.logger.Debug("Chat context updated", zap.Int("chars", len(markdown)))
}

// ReportContext returns the stored report text, "" when none exists yet
func (s *Session) ReportContext() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportContext
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Ask forwards one message to the conversation and returns the reply text.
// The transcript is not touched.
func (s *Session) Ask(ctx context.Context, message string) (string, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.ask(ctx, message)
}

// Send appends message and the reply to the transcript and returns the
// reply. Failures are turned into an assistant-style error message.
func (s *Session) Send(ctx context.Context, message string) ChatMessage {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.appendMessage(s.newMessage(RoleUser, message))

	reply, err := s.ask(ctx, message)
	var msg ChatMessage
	if err != nil {
		msg = s.newMessage(RoleModel, ErrorReplyText)
		msg.Error = true
	} else {
		msg = s.newMessage(RoleModel, reply)
	}

	s.appendMessage(msg)
	return msg
}

func (s *Session) ask(ctx context.Context, message string) (string, error) {
	if s.model == nil {
		return "", ErrMissingAPIKey
	}

	conv, err := s.openConversation(ctx)
	if err != nil {
		return "", err
	}

	reply, err := conv.Send(ctx, message)
	if err != nil {
		s.logger.Error("Chat request failed", zap.Error(err))
		return "", ErrChatFailed
	}

	if strings.TrimSpace(reply) == "" {
		return NoResponseText, nil
	}
	return reply, nil
}

func (s *Session) openConversation(ctx context.Context) (Conversation, error) {
	s.mu.Lock()
	conv := s.conversation
	reportContext := s.reportContext
	s.mu.Unlock()

	if conv != nil {
		return conv, nil
	}

	conv, err := s.model.StartChat(ctx, Instructions(reportContext))
	if err != nil {
		s.logger.Error("Failed to start chat session", zap.Error(err))
		return nil, ErrSessionInit
	}
	if conv == nil {
		return nil, ErrSessionInit
	}

	s.mu.Lock()
	// Context changed while opening; leave the slot for the newer report.
	if s.reportContext == reportContext {
		s.conversation = conv
	}
	s.mu.Unlock()

	s.logger.Debug("Chat session started", zap.Bool("grounded", reportContext != ""))
	return conv, nil
}

func (s *Session) appendMessage(msg ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *Session) newMessage(role Role, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: s.now(),
	}
}
