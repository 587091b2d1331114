package playlist

import "github.com/rienbien8/Bloomix-backend/internal/core/domain"

const (
	baseRelevance     = 1.0
	relevancePerMatch = 0.5
)

// Associations resolves which artists a content relates to.
type Associations interface {
	// DirectArtists returns the artists a content is attributed to.
	DirectArtists(contentID int64) []int64
	// BridgedArtists returns the artists linked to the spots a content is featured at.
	BridgedArtists(contentID int64) []int64
	ArtistName(artistID int64) (string, bool)
}

// Relevance is 1.0 plus 0.5 for every distinct followed artist in artistIDs.
func Relevance(follow domain.FollowSet, artistIDs []int64) float64 {
	seen := make(map[int64]struct{}, len(artistIDs))
	score := baseRelevance
	for _, id := range artistIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if follow.Has(id) {
			score += relevancePerMatch
		}
	}
	return score
}

// RelatedArtistNames lists the names of the artists a content relates to.
// Direct attributions win; bridged artists are consulted only when no direct
// name resolves, and only those in follow are kept.
func RelatedArtistNames(assoc Associations, contentID int64, follow domain.FollowSet) []string {
	if assoc == nil {
		return []string{}
	}

	names := collectNames(assoc, assoc.DirectArtists(contentID), nil)
	if len(names) > 0 {
		return names
	}
	return collectNames(assoc, assoc.BridgedArtists(contentID), follow)
}

func collectNames(assoc Associations, ids []int64, follow domain.FollowSet) []string {
	names := []string{}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if follow != nil && !follow.Has(id) {
			continue
		}
		name, ok := assoc.ArtistName(id)
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		names = append(names, name)
	}
	return names
}

// associatedArtists returns direct and bridged artists of a content, direct first.
func associatedArtists(assoc Associations, contentID int64) []int64 {
	if assoc == nil {
		return nil
	}
	direct := assoc.DirectArtists(contentID)
	bridged := assoc.BridgedArtists(contentID)
	out := make([]int64, 0, len(direct)+len(bridged))
	out = append(out, direct...)
	return append(out, bridged...)
}
