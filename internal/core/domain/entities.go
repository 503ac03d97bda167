package domain

import (
	"time"
)

// Visibility controls who can see a trip.
type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripActive   TripStatus = "active"
	TripArchived TripStatus = "archived"
)

// MemberRole is a user's role on a trip.
type MemberRole string

const (
	RoleViewer MemberRole = "viewer"
	RoleEditor MemberRole = "editor"
	RoleAdmin  MemberRole = "admin"
)

// InviteStatus is the lifecycle state of a trip invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteRevoked  InviteStatus = "revoked"
)

// MediaType classifies an uploaded file.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a server-side login session identified by an opaque token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Trip is a user-owned journey with a date range, visibility, and status.
// DurationDays is derived at creation time, never supplied by the caller.
type Trip struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	DurationDays   int        `json:"duration_days"`
	DistanceMeters float64    `json:"distance_meters"`
	TransportMode  string     `json:"transport_mode,omitempty"`
	Visibility     Visibility `json:"visibility"`
	Status         TripStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TripLocation is a geocoded waypoint on a trip's route.
// StopIndex is nil unless Kind is WaypointStop, in which case it holds the
// zero-based position of the stop within the route's stop list.
type TripLocation struct {
	ID        string       `json:"id"`
	TripID    string       `json:"trip_id"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	City      string       `json:"city,omitempty"`
	Country   string       `json:"country,omitempty"`
	Location  GeoPoint     `json:"location"`
	Kind      WaypointKind `json:"kind"`
	StopIndex *int         `json:"stop_index,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// TripMember grants a user a role on a trip. The trip creator is always an
// admin member added by themselves.
type TripMember struct {
	ID        string     `json:"id"`
	TripID    string     `json:"trip_id"`
	UserID    string     `json:"user_id"`
	Role      MemberRole `json:"role"`
	AddedBy   string     `json:"added_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// TripInvite is a pending request for an email address to join a trip.
// InvitedUserID stays nil until the invitee is matched to an account.
type TripInvite struct {
	ID            string       `json:"id"`
	TripID        string       `json:"trip_id"`
	InvitedUserID *string      `json:"invited_user_id,omitempty"`
	Email         string       `json:"email"`
	InvitedBy     string       `json:"invited_by"`
	Role          MemberRole   `json:"role"`
	Status        InviteStatus `json:"status"`
	AnsweredAt    *time.Time   `json:"answered_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TripMedia links an uploaded object to a trip. TripDayID is nil at creation
// time; assignment to a day happens later in the product flow.
type TripMedia struct {
	ID         string    `json:"id"`
	TripDayID  *string   `json:"trip_day_id,omitempty"`
	TripID     string    `json:"trip_id"`
	Type       MediaType `json:"type"`
	StorageKey string    `json:"storage_key"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// InviteReceipt pairs an invited email with its generated invite id, returned
// to the trip creator.
type InviteReceipt struct {
	Email    string `json:"email"`
	InviteID string `json:"invite_id"`
}

// Place is a geocoding result.
type Place struct {
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	City     string   `json:"city,omitempty"`
	Country  string   `json:"country,omitempty"`
	Location GeoPoint `json:"location"`
}

// RoutePreview is a computed route between waypoints.
type RoutePreview struct {
	Geometry        GeoLineString `json:"geometry"`
	DistanceMeters  float64       `json:"distance_meters"`
	DurationSeconds float64       `json:"duration_seconds"`
	Estimated       bool          `json:"estimated"` // straight-line fallback, not a road route
}
