package domain

import (
	"time"
)

// User is an account that can follow artists.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Artist is a followable entity (artist, team, comedian, ...).
type Artist struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FollowedArtist is an artist together with the time the user followed it.
type FollowedArtist struct {
	Artist
	RegisteredAt time.Time `json:"registered_at"`
}

// Spot is a point of interest linked to artists and contents.
type Spot struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    GeoPoint  `json:"location"`
	Type        *string   `json:"type,omitempty"`
	IsSpecial   bool      `json:"is_special"`
	DwellMin    *int      `json:"dwell_min,omitempty"`
	Address     *string   `json:"address,omitempty"`
	PlaceID     *string   `json:"place_id,omitempty"`
	Description *string   `json:"description,omitempty"`
	DistanceKm  *float64  `json:"distance_km,omitempty"` // computed field
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Content is a media clip (YouTube video, podcast episode, ...).
type Content struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	MediaType    string    `json:"media_type"`
	MediaURL     *string   `json:"media_url,omitempty"`
	YoutubeID    *string   `json:"youtube_id,omitempty"`
	Lang         *string   `json:"lang"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	DurationMin  *int      `json:"duration_min"`
	ArtistID     *int64    `json:"artist_id,omitempty"`
	ArtistName   *string   `json:"artist_name,omitempty"` // computed field
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Duration returns the duration in minutes, or 0 when unknown.
func (c *Content) Duration() int {
	if c.DurationMin == nil {
		return 0
	}
	return *c.DurationMin
}

// FollowSet is the set of artist IDs a user follows.
type FollowSet map[int64]struct{}

// NewFollowSet builds a FollowSet from a list of IDs.
func NewFollowSet(ids ...int64) FollowSet {
	fs := make(FollowSet, len(ids))
	for _, id := range ids {
		fs[id] = struct{}{}
	}
	return fs
}

// Has reports whether id is followed.
func (fs FollowSet) Has(id int64) bool {
	_, ok := fs[id]
	return ok
}

// IDs returns the followed IDs in no particular order.
func (fs FollowSet) IDs() []int64 {
	ids := make([]int64, 0, len(fs))
	for id := range fs {
		ids = append(ids, id)
	}
	return ids
}

// FollowStatus is the outcome of a follow request.
type FollowStatus string

const (
	FollowCreated FollowStatus = "created"
	FollowExists  FollowStatus = "exists"
)

// FollowEvent is published when a user follows or unfollows an artist.
type FollowEvent struct {
	UserID   int64     `json:"user_id"`
	ArtistID int64     `json:"artist_id"`
	Action   string    `json:"action"` // "follow" | "unfollow"
	At       time.Time `json:"at"`
}

// ContentAssociations describes how contents relate to artists, directly and
// through spots. Keys are content IDs.
type ContentAssociations struct {
	Direct      map[int64][]int64 `json:"direct"`
	Bridged     map[int64][]int64 `json:"bridged"`
	ArtistNames map[int64]string  `json:"artist_names"`
}
