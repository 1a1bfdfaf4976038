// Package policy holds the visibility and authorization predicates. Every
// decision is a stateless function over row values read within one request;
// callers apply any side effects.
package policy

import "github.com/awu/foodlog/internal/models"

// AnonymousID is the user id carried by unauthenticated requests. It never
// matches a real user's id.
const AnonymousID uint = 0

// CanViewLogs reports whether viewer may see owner's logs. Public owners are
// visible to everyone, private owners only to themselves.
func CanViewLogs(viewerID, ownerID uint, showLogs bool) bool {
	if showLogs {
		return true
	}
	return viewerID != AnonymousID && viewerID == ownerID
}

// CanDeleteLog allows only the log's creator to delete it.
func CanDeleteLog(requesterID uint, log models.Log) bool {
	return requesterID != AnonymousID && requesterID == log.CreatorID
}

// CanComment allows authenticated users to comment on visible logs. When the
// owner's logs are private, only the owner may comment.
func CanComment(requesterID uint, log models.Log, ownerShowLogs bool) bool {
	if requesterID == AnonymousID {
		return false
	}
	return ownerShowLogs || requesterID == log.CreatorID
}
