package whatsapp

import (
	"encoding/json"
	"fmt"

	"wacloud/pkg/whatsapp/types"
)

// ParseWebhook decodes an inbound webhook envelope and validates every
// message against the discrimination invariant. It is pure and safe to
// call concurrently.
func ParseWebhook(data []byte) (*types.Webhook, error) {
	var hook types.Webhook
	if err := json.Unmarshal(data, &hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}
	if err := hook.Validate(); err != nil {
		return nil, err
	}
	return &hook, nil
}
