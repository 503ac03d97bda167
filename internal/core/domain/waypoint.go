package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WaypointKind tags a route location as the departure point, the final
// destination, or an intermediate stop.
type WaypointKind string

const (
	WaypointStart WaypointKind = "start"
	WaypointEnd   WaypointKind = "end"
	WaypointStop  WaypointKind = "stop"
)

// WaypointRef is the parsed form of a client-supplied location identifier.
// StopIndex is only meaningful when Kind is WaypointStop; it is the
// zero-based position of the referenced stop within the route's stop list.
type WaypointRef struct {
	Kind      WaypointKind
	StopIndex int
}

// StopEntry is one entry of a route's ordered stop list. The numeric ID
// correlates form inputs with stop-<n> location identifiers.
type StopEntry struct {
	ID int `json:"id"`
}

// ParseWaypointRef classifies a location identifier against the route's stop
// list. Identifiers are one of the literals "start" or "end", or "stop-<n>"
// where <n> is a canonical decimal integer matching the ID of an entry in
// stops. Anything else is rejected: malformed identifiers (including
// non-canonical integers such as "stop-01" or "stop-+2") fail with
// ErrInvalidWaypointRef, and a well-formed stop reference with no matching
// entry fails with ErrStopNotFound.
func ParseWaypointRef(id string, stops []StopEntry) (WaypointRef, error) {
	switch id {
	case "start":
		return WaypointRef{Kind: WaypointStart}, nil
	case "end":
		return WaypointRef{Kind: WaypointEnd}, nil
	}

	suffix, ok := strings.CutPrefix(id, "stop-")
	if !ok {
		return WaypointRef{}, fmt.Errorf("waypoint %q: %w", id, ErrInvalidWaypointRef)
	}

	// The suffix must round-trip exactly: no sign, no leading zeros, no
	// whitespace. strconv.Atoi alone accepts "+2" and "007".
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 || strconv.Itoa(n) != suffix {
		return WaypointRef{}, fmt.Errorf("waypoint %q: %w", id, ErrInvalidWaypointRef)
	}

	for i, s := range stops {
		if s.ID == n {
			return WaypointRef{Kind: WaypointStop, StopIndex: i}, nil
		}
	}
	return WaypointRef{}, fmt.Errorf("waypoint %q: %w", id, ErrStopNotFound)
}
