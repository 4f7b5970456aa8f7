package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/usecase"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

func TestBuildConversationPrompt(t *testing.T) {
	prompt, err := usecase.BuildConversationPrompt("You are HAUS.", []model.Message{
		{Role: model.RoleAssistant, Content: "You are speaking with user u1."},
		{Role: model.RoleAssistant, Content: "Remembered: has a dog (confidence: 85%)", Recalled: true},
		{Role: model.RoleUser, Content: "Anything in Bondi?"},
		{Role: model.RoleAssistant, Content: "Let me check."},
	})
	gt.NoError(t, err).Required()

	gt.String(t, prompt).Contains("You are HAUS.")
	gt.String(t, prompt).Contains("- [you] You are speaking with user u1.")
	gt.String(t, prompt).Contains("- [context] Remembered: has a dog (confidence: 85%)")
	gt.String(t, prompt).Contains("- [caller] Anything in Bondi?")

	bare, err := usecase.BuildConversationPrompt("You are HAUS.", nil)
	gt.NoError(t, err).Required()
	gt.Value(t, bare).Equal("You are HAUS.")
}

func textsOf(input []gollem.Input) []string {
	var texts []string
	for _, in := range input {
		if txt, ok := in.(gollem.Text); ok {
			texts = append(texts, string(txt))
		}
	}
	return texts
}

func TestConversationUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("greets and responds after recall", func(t *testing.T) {
		var mu sync.Mutex
		var inputs [][]string

		mem := &mockMemoryClient{
			recallFn: func(ctx context.Context, identity model.Identity, query string, limit int) *model.RecallResult {
				return &model.RecallResult{Facts: []model.Fact{{Fact: "prefers quiet streets", Confidence: 75}}}
			},
		}
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						mu.Lock()
						inputs = append(inputs, textsOf(input))
						n := len(inputs)
						mu.Unlock()
						if n == 1 {
							return &gollem.Response{Texts: []string{"G'day, I'm HAUS!"}}, nil
						}
						return &gollem.Response{Texts: []string{"Bondi has some quiet pockets."}}, nil
					},
				}, nil
			},
		}

		ucs := usecase.New(newTestAgentConfig(), nil,
			usecase.WithLLMClient(llm),
			usecase.WithSessionOptions(usecase.WithMemoryClientFactory(factoryFor(mem))),
		)
		gt.Value(t, ucs.Conversation).NotNil().Required()

		sess, err := ucs.Session.Start(ctx, usecase.StartSessionInput{RoomName: "room42"})
		gt.NoError(t, err).Required()

		greeting, err := ucs.Conversation.Greet(ctx, sess.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, greeting).Equal("G'day, I'm HAUS!")

		reply, err := ucs.Conversation.Respond(ctx, sess.ID, "Anything quiet in Bondi?")
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Bondi has some quiet pockets.")

		gt.Array(t, inputs).Length(2).Required()
		gt.Value(t, inputs[0]).Equal([]string{usecase.GreetingInstruction})
		gt.Value(t, inputs[1]).Equal([]string{"Anything quiet in Bondi?"})
		gt.Value(t, mem.recallQueries).Equal([]string{"Anything quiet in Bondi?"})

		msgs := sess.Context.Messages()
		gt.Array(t, msgs).Length(5).Required()
		gt.Value(t, msgs[1].Content).Equal("G'day, I'm HAUS!")
		gt.Value(t, msgs[2].Content).Equal("Remembered: prefers quiet streets (confidence: 75%)")
		gt.Value(t, msgs[3].Content).Equal("Anything quiet in Bondi?")
		gt.Value(t, msgs[4].Role).Equal(model.RoleAssistant)
	})

	t.Run("generation failure is returned", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockLLMSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return nil, errors.New("rate limited")
					},
				}, nil
			},
		}
		ucs := usecase.New(newTestAgentConfig(), nil,
			usecase.WithLLMClient(llm),
			usecase.WithSessionOptions(usecase.WithMemoryClientFactory(factoryFor(&mockMemoryClient{}))),
		)

		sess, err := ucs.Session.Start(ctx, usecase.StartSessionInput{})
		gt.NoError(t, err).Required()

		_, err = ucs.Conversation.Respond(ctx, sess.ID, "hello")
		gt.Error(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		ucs := usecase.New(newTestAgentConfig(), nil, usecase.WithLLMClient(&mockLLMClient{}))
		_, err := ucs.Conversation.Greet(ctx, "missing")
		gt.Error(t, err).Is(usecase.ErrSessionNotFound)
	})

	t.Run("no LLM means no conversation driver", func(t *testing.T) {
		ucs := usecase.New(newTestAgentConfig(), nil)
		gt.Value(t, ucs.Conversation).Nil()
	})
}
