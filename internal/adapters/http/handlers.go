package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// ListArtistsHandler lists artists filtered by q and category.
func ListArtistsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := domain.ArtistFilter{
			Query:    c.Query("q"),
			Category: c.Query("category"),
			Limit:    c.QueryInt("limit", 50),
			Offset:   c.QueryInt("offset", 0),
		}
		if f.Limit <= 0 || f.Limit > 200 {
			f.Limit = 50
		}
		if f.Offset < 0 {
			f.Offset = 0
		}

		artists, total, err := deps.Artists.List(c.UserContext(), f)
		if err != nil {
			return mapError(c, err)
		}
		pg := Pagination{Offset: f.Offset, Limit: f.Limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(paginated(artists, pg))
	}
}

// GetArtistHandler returns an artist by ID.
func GetArtistHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "artist id must be a positive integer")
		}
		artist, err := deps.Artists.GetByID(c.UserContext(), id)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(artist)
	}
}

// ListSpotsHandler returns spots inside a bounding box, nearest to origin first.
func ListSpotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("bbox")
		if raw == "" {
			return errUnprocessable(c, "bbox query parameter is required (minLat,minLng,maxLat,maxLng)")
		}
		bounds, err := parseBBox(raw)
		if err != nil {
			return mapError(c, err)
		}
		origin, err := parseLatLng(c.Query("origin"))
		if err != nil {
			return mapError(c, err)
		}
		special, err := queryOptionalBool(c, "is_special")
		if err != nil {
			return mapError(c, err)
		}

		spots, err := deps.Spots.InBounds(c.UserContext(), domain.SpotFilter{
			Bounds:    bounds,
			IsSpecial: special,
			Query:     c.Query("q"),
			Limit:     c.QueryInt("limit", 50),
		}, origin)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(listOf(spots))
	}
}

// SpotsAlongRouteHandler returns spots within buffer_m meters of an encoded polyline.
func SpotsAlongRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		polyline := c.Query("polyline")
		if polyline == "" {
			return errUnprocessable(c, "polyline query parameter is required")
		}
		bufferM, err := queryFloat(c, "buffer_m", 0)
		if err != nil {
			return mapError(c, err)
		}

		match, err := deps.Spots.AlongRoute(c.UserContext(), polyline, bufferM, c.QueryInt("limit", 50))
		if err != nil {
			return mapError(c, err)
		}
		spots := match.Spots
		if spots == nil {
			spots = []domain.RouteSpot{}
		}
		return c.JSON(fiber.Map{
			"count":        len(spots),
			"buffer_m":     match.BufferM,
			"route_points": len(match.Route),
			"items":        spots,
		})
	}
}

// GetSpotHandler returns a spot by ID.
func GetSpotHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "spot id must be a positive integer")
		}
		spot, err := deps.Spots.GetByID(c.UserContext(), id)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(spot)
	}
}

// SpotContentsHandler returns the contents featured at a spot.
func SpotContentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "spot id must be a positive integer")
		}
		f, err := contentFilter(c)
		if err != nil {
			return mapError(c, err)
		}
		contents, err := deps.Spots.Contents(c.UserContext(), id, f)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(listOf(contents))
	}
}

// SearchContentsHandler searches contents by spot, artist, language and duration.
func SearchContentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := contentFilter(c)
		if err != nil {
			return mapError(c, err)
		}
		if f.SpotID, err = queryOptionalInt64(c, "spot_id"); err != nil {
			return mapError(c, err)
		}
		if f.ArtistID, err = queryOptionalInt64(c, "artist_id"); err != nil {
			return mapError(c, err)
		}
		contents, err := deps.Contents.Search(c.UserContext(), f)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(listOf(contents))
	}
}

// UserArtistsHandler lists the artists a user follows, newest first.
func UserArtistsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "user id must be a positive integer")
		}
		artists, err := deps.Follows.List(c.UserContext(), userID)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(listOf(artists))
	}
}

// FollowArtistHandler makes a user follow an artist. Repeating it reports "exists".
func FollowArtistHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "user id must be a positive integer")
		}
		artistID, ok := paramID(c, "artistId")
		if !ok {
			return errBadRequest(c, "artist id must be a positive integer")
		}
		status, err := deps.Follows.Follow(c.UserContext(), userID, artistID)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(fiber.Map{"user_id": userID, "artist_id": artistID, "status": status})
	}
}

// UnfollowArtistHandler removes a follow. Missing follows still answer 204.
func UnfollowArtistHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "user id must be a positive integer")
		}
		artistID, ok := paramID(c, "artistId")
		if !ok {
			return errBadRequest(c, "artist id must be a positive integer")
		}
		if err := deps.Follows.Unfollow(c.UserContext(), userID, artistID); err != nil {
			return mapError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UserContentsHandler returns contents linked to the artists a user follows.
func UserContentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "user id must be a positive integer")
		}
		f, err := contentFilter(c)
		if err != nil {
			return mapError(c, err)
		}
		contents, err := deps.Contents.ForUser(c.UserContext(), userID, f)
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(listOf(contents))
	}
}
