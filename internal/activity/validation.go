package activity

import "fmt"

const (
	maxDescriptionLength = 500
	maxMetaLength        = 500
)

// ValidateEventPayload validates activity event payload fields.
func ValidateEventPayload(payload EventPayload) error {
	if payload.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if payload.Action == "" {
		return fmt.Errorf("action is required")
	}
	if payload.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at must be set")
	}
	if len(payload.Description) > maxDescriptionLength {
		return fmt.Errorf("description too long")
	}
	if len(payload.IPAddress) > maxMetaLength {
		return fmt.Errorf("ip_address too long")
	}
	if len(payload.UserAgent) > maxMetaLength {
		return fmt.Errorf("user_agent too long")
	}
	return nil
}
