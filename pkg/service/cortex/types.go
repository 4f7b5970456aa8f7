package cortex

import "github.com/haus-labs/haus-agent/pkg/domain/model"

const (
	pathEnsureMemorySpace = "/api/cortex/ensure-memory-space"
	pathRecall            = "/api/cortex/recall"
	pathRemember          = "/api/cortex/remember"
	pathStorePreference   = "/api/cortex/store-preference"
)

type ensureMemorySpaceRequest struct {
	UserID string `json:"userId"`
}

type ensureMemorySpaceResponse struct {
	MemorySpaceID string `json:"memorySpaceId"`
}

type recallRequest struct {
	UserID string `json:"userId"`
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
}

type rememberRequest struct {
	UserID          string                `json:"userId"`
	UserQuery       string                `json:"userQuery"`
	AgentResponse   string                `json:"agentResponse"`
	PropertyID      string                `json:"propertyId,omitempty"`
	PropertyContext *model.PropertyRecord `json:"propertyContext,omitempty"`
}

type storePreferenceRequest struct {
	UserID     string                    `json:"userId"`
	Category   string                    `json:"category"`
	Preference string                    `json:"preference"`
	Confidence int                       `json:"confidence"`
	Metadata   *model.PreferenceMetadata `json:"metadata,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}
