// Package policy decides whether a caller may remove a record.
package policy

import "github.com/AchilleasB/campus-hub/campus-service/internal/core/domain"

// CanDelete allows admins to delete any record and everyone else to delete
// only records they own. An empty actor id owns nothing.
func CanDelete(actorID string, actorRole domain.Role, ownerID string) bool {
	actor := domain.Caller{ID: actorID, Role: actorRole}
	if actor.IsAdmin() {
		return true
	}
	return actorID != "" && ownerID == actorID
}
