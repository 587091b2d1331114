package domain

import (
	"errors"
	"fmt"
	"time"
)

// PlaylistEvent is published after a playlist has been composed for a user.
type PlaylistEvent struct {
	UserID          int64     `json:"user_id"`
	TargetMinutes   int       `json:"target_minutes"`
	TotalMinutes    int       `json:"total_minutes"`
	Items           int       `json:"items"`
	EfficiencyScore float64   `json:"efficiency_score"`
	At              time.Time `json:"at"`
}

// AutocompleteRequest is a place autocomplete query.
type AutocompleteRequest struct {
	Query    string
	Language string
	Origin   *GeoPoint // optional bias center
	RadiusM  int       // bias radius, 0 for none
}

// SearchTextRequest is a free-text place search.
type SearchTextRequest struct {
	Query    string
	Language string
	Region   string
	Origin   *GeoPoint
	RadiusM  int
	Limit    int
}

// PlaceSuggestion is one autocomplete prediction.
type PlaceSuggestion struct {
	PlaceID       string  `json:"place_id"`
	Description   string  `json:"description"`
	MainText      *string `json:"main_text"`
	SecondaryText *string `json:"secondary_text"`
}

// PlaceDetails describes a resolved place.
type PlaceDetails struct {
	PlaceID  string    `json:"place_id"`
	Name     *string   `json:"name"`
	Address  *string   `json:"address"`
	Location *GeoPoint `json:"location"`
	Types    []string  `json:"types,omitempty"`
}

// ErrUnavailable marks a dependency that cannot serve requests right now.
var ErrUnavailable = errors.New("unavailable")

// UpstreamError carries a non-success answer of an external API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}
