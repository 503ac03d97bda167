package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/flaira/flaira/internal/core/domain"
)

type gqlCtxKey string

const gqlUserKey gqlCtxKey = "gql_user"

func gqlUser(ctx context.Context) (*domain.User, error) {
	u, ok := ctx.Value(gqlUserKey).(*domain.User)
	if !ok || u == nil {
		return nil, errors.New("not authenticated")
	}
	return u, nil
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"owner_id":        &graphql.Field{Type: graphql.String},
			"title":           &graphql.Field{Type: graphql.String},
			"description":     &graphql.Field{Type: graphql.String},
			"start_date":      &graphql.Field{Type: graphql.String},
			"end_date":        &graphql.Field{Type: graphql.String},
			"duration_days":   &graphql.Field{Type: graphql.Int},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"transport_mode":  &graphql.Field{Type: graphql.String},
			"visibility":      &graphql.Field{Type: graphql.String},
			"status":          &graphql.Field{Type: graphql.String},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripLocation",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"trip_id":    &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"address":    &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: geoPointType},
			"kind":       &graphql.Field{Type: graphql.String},
			"stop_index": &graphql.Field{Type: graphql.Int},
		},
	})

	memberType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripMember",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"trip_id":  &graphql.Field{Type: graphql.String},
			"user_id":  &graphql.Field{Type: graphql.String},
			"role":     &graphql.Field{Type: graphql.String},
			"added_by": &graphql.Field{Type: graphql.String},
		},
	})

	tripDetailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripDetail",
		Fields: graphql.Fields{
			"trip":      &graphql.Field{Type: tripType},
			"locations": &graphql.Field{Type: graphql.NewList(locationType)},
			"members":   &graphql.Field{Type: graphql.NewList(memberType)},
		},
	})

	inviteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripInvite",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"trip_id":    &graphql.Field{Type: graphql.String},
			"email":      &graphql.Field{Type: graphql.String},
			"invited_by": &graphql.Field{Type: graphql.String},
			"role":       &graphql.Field{Type: graphql.String},
			"status":     &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trip": &graphql.Field{
				Type:        tripDetailType,
				Description: "Get a trip with its locations and members",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := gqlUser(p.Context)
					if err != nil {
						return nil, err
					}
					id := p.Args["id"].(string)
					return deps.Trips.Get(p.Context, id, user.ID)
				},
			},
			"myTrips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "Trips the caller is a member of, newest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := gqlUser(p.Context)
					if err != nil {
						return nil, err
					}
					offset := p.Args["offset"].(int)
					limit := p.Args["limit"].(int)
					trips, _, err := deps.Trips.ListForUser(p.Context, user.ID, offset, limit)
					return trips, err
				},
			},
			"myInvites": &graphql.Field{
				Type:        graphql.NewList(inviteType),
				Description: "Pending invites addressed to the caller",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := gqlUser(p.Context)
					if err != nil {
						return nil, err
					}
					return deps.Invites.ListForUser(p.Context, user)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint. Runs behind AuthMiddleware so
// resolvers can rely on the calling user.
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

		ctx := context.WithValue(c.Context(), gqlUserKey, currentUser(c))

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})

		return c.JSON(result)
	}
}
