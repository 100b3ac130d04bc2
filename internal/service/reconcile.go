package service

import "github.com/google/uuid"

// diffLinks computes the minimal set of link changes turning the current
// association set into the requested one. Inputs are treated as sets:
// duplicates are ignored and order carries no meaning.
func diffLinks(current, requested []uuid.UUID) (add, remove []uuid.UUID) {
	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	requestedSet := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		requestedSet[id] = true
	}

	for _, id := range requested {
		if !currentSet[id] {
			add = append(add, id)
			currentSet[id] = true // dedupe within requested
		}
	}
	for _, id := range current {
		if !requestedSet[id] {
			remove = append(remove, id)
			requestedSet[id] = true
		}
	}
	return add, remove
}

// normalizePage clamps pagination parameters: skip and limit are floored
// at zero and limit is capped at 100 regardless of the requested value.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}
	return skip, limit
}
