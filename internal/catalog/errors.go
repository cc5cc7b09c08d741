package catalog

import "errors"

var (
	// ErrNotFound means the requested resource exists neither locally nor
	// upstream. A normal, reportable outcome.
	ErrNotFound = errors.New("catalog: not found")
	// ErrUpstream marks a transient remote failure. No retries happen
	// here; callers decide.
	ErrUpstream = errors.New("catalog: upstream unavailable")
	// ErrInvalidRating rejects ratings outside the [1,5] integer range.
	ErrInvalidRating = errors.New("catalog: rating must be an integer between 1 and 5")
	// ErrForbidden rejects mutations by anyone but the owner or an admin.
	ErrForbidden = errors.New("catalog: forbidden")
)
