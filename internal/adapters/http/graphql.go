package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
)

// argInt64 reads an optional integer argument as an int64 pointer.
func argInt64(args map[string]interface{}, name string) *int64 {
	v, ok := args[name].(int)
	if !ok {
		return nil
	}
	id := int64(v)
	return &id
}

func argInt(args map[string]interface{}, name string) *int {
	v, ok := args[name].(int)
	if !ok {
		return nil
	}
	return &v
}

func argStrings(args map[string]interface{}, name string) []string {
	raw, _ := args[name].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	artistType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Artist",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"image_url":   &graphql.Field{Type: graphql.String},
		},
	})

	spotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Spot",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"type":        &graphql.Field{Type: graphql.String},
			"is_special":  &graphql.Field{Type: graphql.Boolean},
			"dwell_min":   &graphql.Field{Type: graphql.Int},
			"address":     &graphql.Field{Type: graphql.String},
			"place_id":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	routeSpotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSpot",
		Fields: graphql.Fields{
			"spot":             &graphql.Field{Type: spotType},
			"route_distance_m": &graphql.Field{Type: graphql.Float},
		},
	})

	contentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Content",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"title":         &graphql.Field{Type: graphql.String},
			"media_type":    &graphql.Field{Type: graphql.String},
			"media_url":     &graphql.Field{Type: graphql.String},
			"youtube_id":    &graphql.Field{Type: graphql.String},
			"lang":          &graphql.Field{Type: graphql.String},
			"thumbnail_url": &graphql.Field{Type: graphql.String},
			"duration_min":  &graphql.Field{Type: graphql.Int},
			"artist_id":     &graphql.Field{Type: graphql.Int},
			"artist_name":   &graphql.Field{Type: graphql.String},
		},
	})

	entryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlaylistEntry",
		Fields: graphql.Fields{
			"content_id":         &graphql.Field{Type: graphql.Int},
			"title":              &graphql.Field{Type: graphql.String},
			"duration_min":       &graphql.Field{Type: graphql.Int},
			"lang":               &graphql.Field{Type: graphql.String},
			"media_type":         &graphql.Field{Type: graphql.String},
			"thumbnail_url":      &graphql.Field{Type: graphql.String},
			"total_duration_min": &graphql.Field{Type: graphql.Int},
			"remaining_min":      &graphql.Field{Type: graphql.Int},
			"related_artists":    &graphql.Field{Type: graphql.NewList(graphql.String)},
			"relevance":          &graphql.Field{Type: graphql.Float},
		},
	})

	playlistType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Playlist",
		Fields: graphql.Fields{
			"playlist": &graphql.Field{Type: graphql.NewList(entryType)},
			"summary": &graphql.Field{Type: graphql.NewObject(graphql.ObjectConfig{
				Name: "PlaylistSummary",
				Fields: graphql.Fields{
					"total_duration_min":  &graphql.Field{Type: graphql.Int},
					"target_duration_min": &graphql.Field{Type: graphql.Int},
					"overage_min":         &graphql.Field{Type: graphql.Int},
					"efficiency_score":    &graphql.Field{Type: graphql.Float},
				},
			})},
		},
	})

	contentArgs := graphql.FieldConfigArgument{
		"langs":        &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
		"min_duration": &graphql.ArgumentConfig{Type: graphql.Int},
		"max_duration": &graphql.ArgumentConfig{Type: graphql.Int},
		"limit":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
	}
	contentFilterOf := func(args map[string]interface{}) domain.ContentFilter {
		return domain.ContentFilter{
			Languages:   argStrings(args, "langs"),
			MinDuration: argInt(args, "min_duration"),
			MaxDuration: argInt(args, "max_duration"),
			Limit:       args["limit"].(int),
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"artists": &graphql.Field{
				Type:        graphql.NewList(artistType),
				Description: "List artists by name/description substring and category",
				Args: graphql.FieldConfigArgument{
					"q":        &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["q"].(string)
					category, _ := p.Args["category"].(string)
					artists, _, err := deps.Artists.List(p.Context, domain.ArtistFilter{
						Query:    q,
						Category: category,
						Limit:    p.Args["limit"].(int),
						Offset:   p.Args["offset"].(int),
					})
					return artists, err
				},
			},
			"artist": &graphql.Field{
				Type:        artistType,
				Description: "Get an artist by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Artists.GetByID(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"spots": &graphql.Field{
				Type:        graphql.NewList(spotType),
				Description: "Spots inside a bounding box, nearest to origin first",
				Args: graphql.FieldConfigArgument{
					"bbox":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"origin":     &graphql.ArgumentConfig{Type: graphql.String},
					"is_special": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"q":          &graphql.ArgumentConfig{Type: graphql.String},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					bounds, err := parseBBox(p.Args["bbox"].(string))
					if err != nil {
						return nil, err
					}
					rawOrigin, _ := p.Args["origin"].(string)
					origin, err := parseLatLng(rawOrigin)
					if err != nil {
						return nil, err
					}
					q, _ := p.Args["q"].(string)
					f := domain.SpotFilter{Bounds: bounds, Query: q, Limit: p.Args["limit"].(int)}
					if special, ok := p.Args["is_special"].(bool); ok {
						f.IsSpecial = &special
					}
					return deps.Spots.InBounds(p.Context, f, origin)
				},
			},
			"spot": &graphql.Field{
				Type:        spotType,
				Description: "Get a spot by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Spots.GetByID(p.Context, int64(p.Args["id"].(int)))
				},
			},
			"spotsAlongRoute": &graphql.Field{
				Type:        graphql.NewList(routeSpotType),
				Description: "Spots within buffer_m meters of an encoded polyline",
				Args: graphql.FieldConfigArgument{
					"polyline": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"buffer_m": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 300.0},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					match, err := deps.Spots.AlongRoute(p.Context,
						p.Args["polyline"].(string), p.Args["buffer_m"].(float64), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					spots := match.Spots
					out := make([]map[string]interface{}, len(spots))
					for i := range spots {
						out[i] = map[string]interface{}{
							"spot":             &spots[i].Spot,
							"route_distance_m": spots[i].RouteDistanceM,
						}
					}
					return out, nil
				},
			},
			"contents": &graphql.Field{
				Type:        graphql.NewList(contentType),
				Description: "Search contents by spot, artist, language and duration",
				Args: func() graphql.FieldConfigArgument {
					args := graphql.FieldConfigArgument{
						"spot_id":   &graphql.ArgumentConfig{Type: graphql.Int},
						"artist_id": &graphql.ArgumentConfig{Type: graphql.Int},
					}
					for k, v := range contentArgs {
						args[k] = v
					}
					return args
				}(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := contentFilterOf(p.Args)
					f.SpotID = argInt64(p.Args, "spot_id")
					f.ArtistID = argInt64(p.Args, "artist_id")
					return deps.Contents.Search(p.Context, f)
				},
			},
			"userContents": &graphql.Field{
				Type:        graphql.NewList(contentType),
				Description: "Contents linked to the artists a user follows",
				Args: func() graphql.FieldConfigArgument {
					args := graphql.FieldConfigArgument{
						"user_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					}
					for k, v := range contentArgs {
						args[k] = v
					}
					return args
				}(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Contents.ForUser(p.Context, int64(p.Args["user_id"].(int)), contentFilterOf(p.Args))
				},
			},
			"playlist": &graphql.Field{
				Type:        playlistType,
				Description: "Compose a playlist sized to a target duration",
				Args: graphql.FieldConfigArgument{
					"user_id":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"target_duration_min": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"preferred_langs":     &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"content_types":       &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"tolerance_min":       &graphql.ArgumentConfig{Type: graphql.Int},
					"max_items":           &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := PlaylistRequest{
						UserID:            int64(p.Args["user_id"].(int)),
						TargetDurationMin: p.Args["target_duration_min"].(int),
						PreferredLangs:    argStrings(p.Args, "preferred_langs"),
						ContentTypes:      argStrings(p.Args, "content_types"),
						ToleranceMin:      argInt(p.Args, "tolerance_min"),
						MaxItems:          argInt(p.Args, "max_items"),
					}
					return deps.Planner.Compose(p.Context, req.toUsecase(deps))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// a broken schema is a programming error
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "body must be a JSON object with a query")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
