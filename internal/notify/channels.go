// internal/notify/channels.go
package notify

import (
	"fmt"

	"github.com/google/uuid"
)

// Channel names match the rooms clients join at session start: their own id,
// and one pool room per account type. Keeping the naming in one place is what
// makes the audience resolution testable.
func UserChannel(id uuid.UUID) string {
	return id.String()
}

func AuthorizationChannel(department string) string {
	return fmt.Sprintf("Authorization Account %s", department)
}

func ApprovalChannel() string {
	return "Approval Account"
}

func ManagingChannel(section string) string {
	return fmt.Sprintf("Managing Account %s", section)
}
