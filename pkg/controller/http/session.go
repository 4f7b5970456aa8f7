package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/haus-labs/haus-agent/pkg/agent/tool"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/usecase"
	"github.com/haus-labs/haus-agent/pkg/utils/errutil"
	"github.com/haus-labs/haus-agent/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const maxRequestBodySize = 1 << 20

type startSessionRequest struct {
	RoomName string          `json:"roomName"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type startSessionResponse struct {
	ID            model.SessionID         `json:"id"`
	Identity      model.Identity          `json:"identity"`
	MemorySpaceID model.MemorySpaceID     `json:"memorySpaceId,omitempty"`
	Instructions  string                  `json:"instructions"`
	Greeting      string                  `json:"greeting"`
	Context       []model.Message         `json:"context"`
	Pipeline      model.PipelineSelectors `json:"pipeline"`
	Tools         []toolSpecResponse      `json:"tools"`
}

type turnRequest struct {
	Text string `json:"text"`
}

type turnResponse struct {
	Injected []model.Message `json:"injected"`
}

type toolParameterResponse struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

type toolSpecResponse struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Parameters  map[string]toolParameterResponse `json:"parameters"`
}

type toolsResponse struct {
	Tools []toolSpecResponse `json:"tools"`
}

type toolResultResponse struct {
	Result string `json:"result"`
}

func toToolSpecResponses(specs []gollem.ToolSpec) []toolSpecResponse {
	out := make([]toolSpecResponse, len(specs))
	for i, spec := range specs {
		params := make(map[string]toolParameterResponse, len(spec.Parameters))
		for name, p := range spec.Parameters {
			params[name] = toolParameterResponse{
				Type:        string(p.Type),
				Description: p.Description,
				Required:    p.Required,
			}
		}
		out[i] = toolSpecResponse{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  params,
		}
	}
	return out
}

// metadataString accepts call metadata either as a JSON string holding a
// document or as an inline object.
func metadataString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func startSessionHandler(sessions *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startSessionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		sess, err := sessions.Start(r.Context(), usecase.StartSessionInput{
			RoomName: req.RoomName,
			Metadata: metadataString(req.Metadata),
		})
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, startSessionResponse{
			ID:            sess.ID,
			Identity:      sess.Identity,
			MemorySpaceID: sess.MemorySpaceID,
			Instructions:  sess.Instructions,
			Greeting:      sess.Greeting,
			Context:       sess.Context.Messages(),
			Pipeline:      sess.Pipeline,
			Tools:         toToolSpecResponses(sess.Tools.Specs()),
		})
	}
}

func turnHandler(sessions *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req turnRequest
		if !decodeBody(w, r, &req) {
			return
		}

		injected, err := sessions.HandleTurn(r.Context(), sessionID(r), req.Text)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, turnResponse{Injected: injected})
	}
}

func appendMessageHandler(sessions *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg model.Message
		if !decodeBody(w, r, &msg) {
			return
		}

		if err := sessions.AppendMessage(r.Context(), sessionID(r), msg); err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listToolsHandler(sessions *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Get(sessionID(r))
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toolsResponse{Tools: toToolSpecResponses(sess.Tools.Specs())})
	}
}

func invokeToolHandler(sessions *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args := map[string]any{}
		if !decodeBody(w, r, &args) {
			return
		}

		result, err := sessions.InvokeTool(r.Context(), sessionID(r), chi.URLParam(r, "toolName"), args)
		if err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toolResultResponse{Result: result})
	}
}

func endSessionHandler(sessions *usecase.SessionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.End(r.Context(), sessionID(r)); err != nil {
			handleUseCaseError(r.Context(), w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(chi.URLParam(r, "sessionID"))
}

// handleUseCaseError maps use case sentinels to HTTP status codes.
func handleUseCaseError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, tool.ErrUnknownTool):
		status = http.StatusNotFound
	case errors.Is(err, tool.ErrInvalidArgument), errors.Is(err, model.ErrInvalidRole):
		status = http.StatusBadRequest
	}
	errutil.HandleHTTP(ctx, w, err, status)
}

// decodeBody decodes a JSON body into v. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer safe.Close(r.Context(), body)

	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, data)
}
