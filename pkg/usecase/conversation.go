package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/conversation.md
var conversationPromptTmpl string

var conversationPrompt = template.Must(template.New("conversation").Parse(conversationPromptTmpl))

// ConversationUseCase plays the hosted pipeline's part in text form: it runs
// the mediator on each typed line and asks the model for a reply.
type ConversationUseCase struct {
	sessions  *SessionUseCase
	llmClient gollem.LLMClient
}

// NewConversationUseCase creates a ConversationUseCase.
func NewConversationUseCase(sessions *SessionUseCase, llmClient gollem.LLMClient) *ConversationUseCase {
	return &ConversationUseCase{
		sessions:  sessions,
		llmClient: llmClient,
	}
}

// Greet produces the opening line of the call.
func (uc *ConversationUseCase) Greet(ctx context.Context, id model.SessionID) (string, error) {
	sess, err := uc.sessions.Get(id)
	if err != nil {
		return "", err
	}

	sess.turn.Lock()
	defer sess.turn.Unlock()

	return uc.generate(ctx, sess, sess.Greeting)
}

// Respond handles one finalized user line. Recall completes before generation starts.
func (uc *ConversationUseCase) Respond(ctx context.Context, id model.SessionID, text string) (string, error) {
	sess, err := uc.sessions.Get(id)
	if err != nil {
		return "", err
	}

	sess.turn.Lock()
	defer sess.turn.Unlock()

	sess.Mediator.OnUserTurnCompleted(ctx, sess.Context, text)
	return uc.generate(ctx, sess, text)
}

// generate asks the model for a reply to input. The working context goes
// into the system prompt; when its last entry is input itself, that entry is
// sent as the user input instead.
func (uc *ConversationUseCase) generate(ctx context.Context, sess *Session, input string) (string, error) {
	msgs := sess.Context.Messages()
	if n := len(msgs); n > 0 && msgs[n-1].Role == model.RoleUser && msgs[n-1].Content == input {
		msgs = msgs[:n-1]
	}

	systemPrompt, err := buildConversationPrompt(sess.Instructions, msgs)
	if err != nil {
		return "", err
	}

	logger := logging.From(ctx)
	agent := gollem.New(uc.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(sess.Tools.Tools()...),
		gollem.WithToolMiddleware(
			func(next gollem.ToolHandler) gollem.ToolHandler {
				return func(ctx context.Context, req *gollem.ToolExecRequest) (*gollem.ToolExecResponse, error) {
					logger.Info("Tool called", "tool", req.Tool.Name, SessionIDKey, sess.ID)
					resp, err := next(ctx, req)
					if resp != nil && resp.Error != nil {
						logger.Warn("Tool failed", "tool", req.Tool.Name, "error", resp.Error.Error())
					}
					return resp, err
				}
			},
		),
	)

	resp, err := agent.Execute(tool.WithWorkingContext(ctx, sess.Context), gollem.Text(input))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate reply", goerr.V(SessionIDKey, sess.ID))
	}

	reply := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if reply != "" {
		sess.Context.Append(model.Message{Role: model.RoleAssistant, Content: reply})
	}
	return reply, nil
}

type conversationPromptMessage struct {
	Label   string
	Content string
}

type conversationPromptData struct {
	Instructions string
	Messages     []conversationPromptMessage
}

func buildConversationPrompt(instructions string, msgs []model.Message) (string, error) {
	data := conversationPromptData{Instructions: instructions}
	for _, msg := range msgs {
		data.Messages = append(data.Messages, conversationPromptMessage{
			Label:   messageLabel(msg),
			Content: msg.Content,
		})
	}

	var buf bytes.Buffer
	if err := conversationPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render conversation prompt")
	}
	return strings.TrimSpace(buf.String()), nil
}

func messageLabel(msg model.Message) string {
	switch {
	case msg.Recalled:
		return "context"
	case msg.Role == model.RoleUser:
		return "caller"
	case msg.Role == model.RoleSystem:
		return "system"
	default:
		return "you"
	}
}
