package playlist

import "github.com/rienbien8/Bloomix-backend/internal/core/domain"

// Index is an in-memory Associations snapshot.
type Index struct {
	direct  map[int64][]int64
	bridged map[int64][]int64
	names   map[int64]string
}

// NewIndex builds an Index from associations loaded by the caller.
func NewIndex(a domain.ContentAssociations) *Index {
	idx := &Index{
		direct:  a.Direct,
		bridged: a.Bridged,
		names:   a.ArtistNames,
	}
	if idx.direct == nil {
		idx.direct = map[int64][]int64{}
	}
	if idx.bridged == nil {
		idx.bridged = map[int64][]int64{}
	}
	if idx.names == nil {
		idx.names = map[int64]string{}
	}
	return idx
}

func (i *Index) DirectArtists(contentID int64) []int64  { return i.direct[contentID] }
func (i *Index) BridgedArtists(contentID int64) []int64 { return i.bridged[contentID] }

func (i *Index) ArtistName(artistID int64) (string, bool) {
	name, ok := i.names[artistID]
	return name, ok
}
