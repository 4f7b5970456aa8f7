package usecase_test

import (
	"context"
	"sync"

	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/domain/model/config"
	"github.com/m-mizutani/gollem"
)

// mockMemoryClient is a MemoryClient whose behavior is set per test.
type mockMemoryClient struct {
	mu sync.Mutex

	ensureFn func(ctx context.Context, identity model.Identity) (model.MemorySpaceID, bool)
	recallFn func(ctx context.Context, identity model.Identity, query string, limit int) *model.RecallResult

	recallQueries []string
	recallLimits  []int
	preferences   []*model.Preference
	closed        int
}

func (m *mockMemoryClient) EnsureMemorySpace(ctx context.Context, identity model.Identity) (model.MemorySpaceID, bool) {
	if m.ensureFn != nil {
		return m.ensureFn(ctx, identity)
	}
	return model.MemorySpaceID("ms-" + identity.String()), true
}

func (m *mockMemoryClient) RecallContext(ctx context.Context, identity model.Identity, query string, limit int) *model.RecallResult {
	m.mu.Lock()
	m.recallQueries = append(m.recallQueries, query)
	m.recallLimits = append(m.recallLimits, limit)
	m.mu.Unlock()

	if m.recallFn != nil {
		return m.recallFn(ctx, identity, query, limit)
	}
	return model.NewEmptyRecallResult()
}

func (m *mockMemoryClient) RememberConversation(ctx context.Context, identity model.Identity, record *model.ConversationRecord) bool {
	return true
}

func (m *mockMemoryClient) StorePreference(ctx context.Context, identity model.Identity, pref *model.Preference) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences = append(m.preferences, pref)
	return true
}

func (m *mockMemoryClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *mockMemoryClient) closeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// factoryFor returns a MemoryClientFactory that always hands out client.
func factoryFor(client interfaces.MemoryClient) func(string, config.Tuning) (interfaces.MemoryClient, error) {
	return func(string, config.Tuning) (interfaces.MemoryClient, error) {
		return client, nil
	}
}

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{
		Texts: []string{"G'day! I'm HAUS. What are you looking for?"},
	}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}
