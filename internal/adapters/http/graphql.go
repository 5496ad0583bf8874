package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	trailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trail",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"slug":        &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"theme":       &graphql.Field{Type: graphql.String},
			"start":       &graphql.Field{Type: geoPointType},
			"end":         &graphql.Field{Type: geoPointType},
			"distance_km": &graphql.Field{Type: graphql.Float},
			"published":   &graphql.Field{Type: graphql.Boolean},
		},
	})

	poiType := graphql.NewObject(graphql.ObjectConfig{
		Name: "POI",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"trail_id":    &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"kind":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"media_url":   &graphql.Field{Type: graphql.String},
			"position":    &graphql.Field{Type: graphql.Int},
			"distance":    &graphql.Field{Type: graphql.Float},
		},
	})

	huntType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Hunt",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"trail_id": &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"clue":     &graphql.Field{Type: graphql.String},
			"prize":    &graphql.Field{Type: graphql.String},
			"active":   &graphql.Field{Type: graphql.Boolean},
		},
	})

	scoreType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ScoreEntry",
		Fields: graphql.Fields{
			"user_id":          &graphql.Field{Type: graphql.String},
			"username":         &graphql.Field{Type: graphql.String},
			"points":           &graphql.Field{Type: graphql.Int},
			"trails_completed": &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trails": &graphql.Field{
				Type:        graphql.NewList(trailType),
				Description: "List all trails",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trails.List(p.Context)
				},
			},
			"trail": &graphql.Field{
				Type:        trailType,
				Description: "Get a trail by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trails.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"trailBySlug": &graphql.Field{
				Type:        trailType,
				Description: "Get a trail by URL slug",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Trails.GetBySlug(p.Context, p.Args["slug"].(string))
				},
			},
			"trailPois": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "POIs of a trail in walking order",
				Args: graphql.FieldConfigArgument{
					"trail_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.POIs.ListByTrail(p.Context, p.Args["trail_id"].(string))
				},
			},
			"poisNearby": &graphql.Field{
				Type:        graphql.NewList(poiType),
				Description: "Find POIs near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.POIs.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"activeHunts": &graphql.Field{
				Type:        graphql.NewList(huntType),
				Description: "Hunts currently open to players",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Hunts.ListActive(p.Context)
				},
			},
			"leaderboard": &graphql.Field{
				Type:        graphql.NewList(scoreType),
				Description: "Top-ranked players",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 25},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Leaderboard.Top(p.Context, p.Args["limit"].(int))
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
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
