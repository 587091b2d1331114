package domain

// PlaylistEntry is one content placed in a playlist. Immutable once appended.
type PlaylistEntry struct {
	ContentID        int64    `json:"content_id"`
	Title            string   `json:"title"`
	DurationMin      int      `json:"duration_min"`
	Lang             *string  `json:"lang"`
	MediaType        string   `json:"media_type"`
	ThumbnailURL     *string  `json:"thumbnail_url"`
	TotalDurationMin int      `json:"total_duration_min"`
	RemainingMin     int      `json:"remaining_min"`
	RelatedArtists   []string `json:"related_artists"`
	Relevance        float64  `json:"relevance"`
}

// PlaylistSummary aggregates a composed playlist.
type PlaylistSummary struct {
	TotalDurationMin  int     `json:"total_duration_min"`
	TargetDurationMin int     `json:"target_duration_min"`
	OverageMin        int     `json:"overage_min"`
	EfficiencyScore   float64 `json:"efficiency_score"`
}

// Playlist is the result of composing contents against a target duration.
type Playlist struct {
	Entries []PlaylistEntry `json:"playlist"`
	Summary PlaylistSummary `json:"summary"`
}

// RouteSpot is a spot matched against a travel route.
type RouteSpot struct {
	Spot
	RouteDistanceM float64 `json:"route_distance_m"`
}

// RouteMatch is the outcome of a corridor lookup: the decoded route, the
// buffer actually applied and the spots inside it, nearest first.
type RouteMatch struct {
	Route   Route
	BufferM float64
	Spots   []RouteSpot
}

// TripPlan combines the spots along a route with a playlist sized to the trip.
type TripPlan struct {
	Route       Route       `json:"route"`
	Polyline    string      `json:"polyline"`
	BufferM     float64     `json:"buffer_m"`
	Spots       []RouteSpot `json:"spots"`
	Playlist    *Playlist   `json:"playlist,omitempty"`
	PlaylistErr string      `json:"playlist_error,omitempty"`
}
