package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

type structuredFormatting struct {
	MainText      *string `json:"main_text"`
	SecondaryText *string `json:"secondary_text"`
}

type predictionView struct {
	PlaceID              string               `json:"place_id"`
	Description          string               `json:"description"`
	StructuredFormatting structuredFormatting `json:"structured_formatting"`
}

type latLngView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type placeView struct {
	PlaceID  string      `json:"place_id"`
	Name     *string     `json:"name"`
	Address  *string     `json:"address"`
	Location *latLngView `json:"location"`
	Types    []string    `json:"types,omitempty"`
}

func toPlaceView(p domain.PlaceDetails) placeView {
	v := placeView{PlaceID: p.PlaceID, Name: p.Name, Address: p.Address, Types: p.Types}
	if p.Location != nil {
		v.Location = &latLngView{Latitude: p.Location.Lat, Longitude: p.Location.Lng}
	}
	return v
}

// biasOrigin parses the optional origin of a place query. A malformed origin
// is dropped rather than rejected.
func biasOrigin(c *fiber.Ctx) *domain.GeoPoint {
	origin, err := parseLatLng(c.Query("origin"))
	if err != nil {
		return nil
	}
	return origin
}

// AutocompleteHandler returns place predictions for a partial query.
func AutocompleteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		suggestions, err := deps.Maps.Autocomplete(c.UserContext(), domain.AutocompleteRequest{
			Query:    c.Query("q"),
			Language: c.Query("language", "ja"),
			Origin:   biasOrigin(c),
			RadiusM:  c.QueryInt("radius_m", 0),
		})
		if err != nil {
			return mapError(c, err)
		}

		preds := make([]predictionView, len(suggestions))
		for i, s := range suggestions {
			preds[i] = predictionView{
				PlaceID:              s.PlaceID,
				Description:          s.Description,
				StructuredFormatting: structuredFormatting{MainText: s.MainText, SecondaryText: s.SecondaryText},
			}
		}
		return c.JSON(fiber.Map{"predictions": preds})
	}
}

// PlaceDetailsHandler resolves a place ID.
func PlaceDetailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		place, err := deps.Maps.PlaceDetails(c.UserContext(), c.Query("place_id"), c.Query("language", "ja"))
		if err != nil {
			return mapError(c, err)
		}
		return c.JSON(toPlaceView(*place))
	}
}

// SearchTextHandler runs a free-text place search.
func SearchTextHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := deps.Maps.SearchText(c.UserContext(), domain.SearchTextRequest{
			Query:    c.Query("q"),
			Language: c.Query("language", "ja"),
			Region:   c.Query("region", "JP"),
			Origin:   biasOrigin(c),
			RadiusM:  c.QueryInt("radius_m", 3000),
			Limit:    c.QueryInt("limit", 10),
		})
		if err != nil {
			return mapError(c, err)
		}

		items := make([]placeView, len(places))
		for i, p := range places {
			items[i] = toPlaceView(p)
		}
		return c.JSON(listOf(items))
	}
}
