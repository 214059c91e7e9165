// Package policy contains the pure authorization decision functions for
// the application. Functions here take the acting identity and the target
// resource and return a verdict; they never touch storage and never have
// side effects, so every rule is independently testable.
package policy

import (
	"murmur/internal/models"
)

// CanEditProfile reports whether actorID may edit targetID's profile.
// Only the owner may edit.
func CanEditProfile(actorID, targetID uint) bool {
	return actorID == targetID
}

// CanFollow reports whether actorID may follow targetID. Following
// yourself is never allowed.
func CanFollow(actorID, targetID uint) bool {
	return actorID != targetID
}

// CanMutatePost reports whether actorID may update or delete the post.
// Only the author may.
func CanMutatePost(actorID uint, post *models.Post) bool {
	return post != nil && actorID == post.UserID
}

// CanMutateComment reports whether actorID may update or delete the comment.
// Only the author may.
func CanMutateComment(actorID uint, comment *models.Comment) bool {
	return comment != nil && actorID == comment.UserID
}
