package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/kanahhealth/kanah/internal/core/domain"
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

	workerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HealthWorker",
		Fields: graphql.Fields{
			"id":                   &graphql.Field{Type: graphql.String},
			"user_id":              &graphql.Field{Type: graphql.String},
			"full_name":            &graphql.Field{Type: graphql.String},
			"worker_type":          &graphql.Field{Type: graphql.String},
			"available_for_visits": &graphql.Field{Type: graphql.Boolean},
			"available_for_calls":  &graphql.Field{Type: graphql.Boolean},
			"location":             &graphql.Field{Type: geoPointType},
			"rating":               &graphql.Field{Type: graphql.Float},
			"review_count":         &graphql.Field{Type: graphql.Int},
		},
	})

	rankedWorkerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedWorker",
		Fields: graphql.Fields{
			"worker":      &graphql.Field{Type: workerType},
			"distance_km": &graphql.Field{Type: graphql.Float},
			"rank":        &graphql.Field{Type: graphql.Int},
			"place_name":  &graphql.Field{Type: graphql.String},
		},
	})

	tipType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HealthTip",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"title":           &graphql.Field{Type: graphql.String},
			"content":         &graphql.Field{Type: graphql.String},
			"content_type":    &graphql.Field{Type: graphql.String},
			"video_url":       &graphql.Field{Type: graphql.String},
			"category":        &graphql.Field{Type: graphql.String},
			"language":        &graphql.Field{Type: graphql.String},
			"premium_content": &graphql.Field{Type: graphql.Boolean},
		},
	})

	appointmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Appointment",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"mother_id":        &graphql.Field{Type: graphql.String},
			"health_worker_id": &graphql.Field{Type: graphql.String},
			"appointment_type": &graphql.Field{Type: graphql.String},
			"status":           &graphql.Field{Type: graphql.String},
			"payment_status":   &graphql.Field{Type: graphql.String},
			"payment_amount":   &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"workersRanked": &graphql.Field{
				Type:        graphql.NewList(rankedWorkerType),
				Description: "Workers eligible for an appointment type, ranked by distance",
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "visitation"},
					"lat":  &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":  &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					apptType := domain.AppointmentType(p.Args["type"].(string))
					var seeker *domain.GeoPoint
					lat, latOK := p.Args["lat"].(float64)
					lon, lonOK := p.Args["lon"].(float64)
					if latOK && lonOK {
						seeker = &domain.GeoPoint{Lat: lat, Lon: lon}
					}
					return deps.Directory.ListRanked(p.Context, apptType, seeker)
				},
			},
			"workersNearby": &graphql.Field{
				Type:        graphql.NewList(workerType),
				Description: "Find health workers near a location",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 10.0},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius_km"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Directory.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"worker": &graphql.Field{
				Type:        workerType,
				Description: "Get a health worker by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Directory.GetWorker(p.Context, id)
				},
			},
			"healthTips": &graphql.Field{
				Type:        graphql.NewList(tipType),
				Description: "Tips feed for a mother's current postpartum window",
				Args: graphql.FieldConfigArgument{
					"mother_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					motherID := p.Args["mother_id"].(string)
					return deps.Tips.ListForMother(p.Context, motherID)
				},
			},
			"appointments": &graphql.Field{
				Type:        graphql.NewList(appointmentType),
				Description: "A mother's appointments, newest first",
				Args: graphql.FieldConfigArgument{
					"mother_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					motherID := p.Args["mother_id"].(string)
					return deps.Bookings.ListByMother(p.Context, motherID)
				},
			},
			"reverseGeocode": &graphql.Field{
				Type:        graphql.String,
				Description: "Resolve a coordinate to a place label",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					return deps.Places.Resolve(p.Context, domain.GeoPoint{Lat: lat, Lon: lon}), nil
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
