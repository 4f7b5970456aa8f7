package model_test

import (
	"errors"
	"testing"

	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestWorkingContext(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		wc := model.NewWorkingContext(model.Message{Role: model.RoleAssistant, Content: "greet"})
		wc.Append(
			model.Message{Role: model.RoleUser, Content: "hi"},
			model.Message{Role: model.RoleAssistant, Content: "hello"},
		)

		msgs := wc.Messages()
		gt.Array(t, msgs).Length(3).Required()
		gt.Value(t, msgs[0].Content).Equal("greet")
		gt.Value(t, msgs[2].Content).Equal("hello")
		gt.Number(t, wc.Len()).Equal(3)
	})

	t.Run("Last on empty context", func(t *testing.T) {
		wc := model.NewWorkingContext()
		_, ok := wc.Last()
		gt.Bool(t, ok).False()
	})

	t.Run("Messages returns a copy", func(t *testing.T) {
		wc := model.NewWorkingContext(model.Message{Role: model.RoleUser, Content: "original"})
		msgs := wc.Messages()
		msgs[0].Content = "changed"

		last, ok := wc.Last()
		gt.Bool(t, ok).True()
		gt.Value(t, last.Content).Equal("original")
	})
}

func TestRole_Validate(t *testing.T) {
	for _, r := range []model.Role{model.RoleUser, model.RoleAssistant, model.RoleSystem} {
		gt.NoError(t, r.Validate())
	}

	err := model.Role("tool").Validate()
	gt.Bool(t, errors.Is(err, model.ErrInvalidRole)).True()
}
