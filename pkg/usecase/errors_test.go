package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrSessionNotFound", usecase.ErrSessionNotFound},
		{"ErrUnknownTool", tool.ErrUnknownTool},
		{"ErrInvalidArgument", tool.ErrInvalidArgument},
		{"ErrInvalidRole", model.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}

	for i := range tests {
		for j := range tests {
			if i != j {
				gt.Bool(t, errors.Is(tests[i].err, tests[j].err)).False()
			}
		}
	}
}

func TestErrors_SessionNotFoundCarriesID(t *testing.T) {
	uc := newTestSessionUseCase(&mockMemoryClient{})

	_, err := uc.HandleTurn(context.Background(), model.SessionID("missing"), "hello")
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)

	var ge *goerr.Error
	gt.Bool(t, errors.As(err, &ge)).True().Required()
	gt.Value(t, ge.Values()[usecase.SessionIDKey]).Equal(model.SessionID("missing"))
}
