package domain

import (
	"errors"
	"testing"
)

func TestParseWaypointRef_StartEnd(t *testing.T) {
	stops := []StopEntry{{ID: 1}, {ID: 2}}

	ref, err := ParseWaypointRef("start", stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Kind != WaypointStart {
		t.Errorf("expected start, got %s", ref.Kind)
	}

	ref, err = ParseWaypointRef("end", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Kind != WaypointEnd {
		t.Errorf("expected end, got %s", ref.Kind)
	}
}

func TestParseWaypointRef_StopIndexIsListPosition(t *testing.T) {
	// The index is the position of the matching entry, not the parsed number.
	stops := []StopEntry{{ID: 1}, {ID: 2}, {ID: 3}}

	ref, err := ParseWaypointRef("stop-2", stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Kind != WaypointStop {
		t.Errorf("expected stop, got %s", ref.Kind)
	}
	if ref.StopIndex != 1 {
		t.Errorf("expected index 1, got %d", ref.StopIndex)
	}

	// Out-of-order IDs still resolve to the list position.
	ref, err = ParseWaypointRef("stop-7", []StopEntry{{ID: 7}, {ID: 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.StopIndex != 0 {
		t.Errorf("expected index 0, got %d", ref.StopIndex)
	}
}

func TestParseWaypointRef_MalformedSuffix(t *testing.T) {
	for _, id := range []string{"stop-abc", "stop-", "stop-01", "stop-+2", "stop--1", "stop-2 "} {
		_, err := ParseWaypointRef(id, []StopEntry{{ID: 1}, {ID: 2}})
		if !errors.Is(err, ErrInvalidWaypointRef) {
			t.Errorf("%q: expected ErrInvalidWaypointRef, got %v", id, err)
		}
	}
}

func TestParseWaypointRef_DanglingStop(t *testing.T) {
	_, err := ParseWaypointRef("stop-99", []StopEntry{{ID: 1}})
	if !errors.Is(err, ErrStopNotFound) {
		t.Errorf("expected ErrStopNotFound, got %v", err)
	}
}

func TestParseWaypointRef_UnknownTag(t *testing.T) {
	_, err := ParseWaypointRef("bogus", nil)
	if !errors.Is(err, ErrInvalidWaypointRef) {
		t.Errorf("expected ErrInvalidWaypointRef, got %v", err)
	}
}
