package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks a request that is well-formed but semantically invalid.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPending is returned when an asynchronous result is not ready yet.
	ErrPending = errors.New("pending")
)

// ArtistFilter narrows an artist listing.
type ArtistFilter struct {
	Query    string // substring of name or description
	Category string
	Limit    int
	Offset   int
}

// SpotFilter narrows a bounding-box spot listing.
type SpotFilter struct {
	Bounds    Bounds
	IsSpecial *bool
	Query     string
	Limit     int
}

// ContentFilter narrows a content search. Zero values mean "no constraint".
type ContentFilter struct {
	SpotID      *int64
	ArtistID    *int64 // through the spot bridge
	FollowerID  *int64 // contents bridged to artists this user follows
	Languages   []string
	MinDuration *int
	MaxDuration *int
	Limit       int
}

// SpotArtistLink associates a spot with an artist.
type SpotArtistLink struct {
	SpotID   int64 `json:"spot_id"`
	ArtistID int64 `json:"artist_id"`
}

// SpotContentLink associates a spot with a content.
type SpotContentLink struct {
	SpotID    int64 `json:"spot_id"`
	ContentID int64 `json:"content_id"`
}
