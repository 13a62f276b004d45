// Package ownership implements the authorization predicate applied before
// any mutation of an owned resource.
package ownership

// Decision is the outcome of an ownership check.
type Decision int

const (
	// Allowed means the requester owns the resource.
	Allowed Decision = iota
	// DeniedNotFound means the resource does not exist.
	DeniedNotFound
	// DeniedForbidden means the resource exists but belongs to someone else.
	DeniedForbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case DeniedNotFound:
		return "denied: not found"
	case DeniedForbidden:
		return "denied: forbidden"
	}
	return "unknown"
}

// Authorize decides whether requester may mutate a resource. Both sides of
// the comparison are parsed int64 identifiers; anything that failed to
// parse must be rejected before reaching this predicate.
func Authorize(exists bool, ownerID, requesterID int64) Decision {
	if !exists {
		return DeniedNotFound
	}
	if ownerID != requesterID {
		return DeniedForbidden
	}
	return Allowed
}
