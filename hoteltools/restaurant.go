package hoteltools

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// RestaurantMenuTool returns the restaurant_menu Tool: GET /api/v1/restaurant/menu.
func RestaurantMenuTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "restaurant_menu",
			Description: "Get the full restaurant menu with dishes, descriptions and prices. " +
				"Returns list of available dishes in the hotel restaurant.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
				Required:   []string{},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			menu, err := backend.do(ctx, http.MethodGet, "/api/v1/restaurant/menu", bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": menu}, nil
		},
	}
}

// RestaurantTableListTool returns the restaurant_table_list Tool:
// GET /api/v1/restaurant/reservations.
func RestaurantTableListTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "restaurant_table_list",
			Description: "Get list of all table reservations in the restaurant. " +
				"Depending on the user's role, backend will return either their own reservations or all reservations.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
				Required:   []string{},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			reservations, err := backend.do(ctx, http.MethodGet, "/api/v1/restaurant/reservations", bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservations}, nil
		},
	}
}

// RestaurantTableGetTool returns the restaurant_table_get Tool:
// GET /api/v1/restaurant/reservations/{id}.
func RestaurantTableGetTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "restaurant_table_get",
			Description: "Get detailed information about a specific table reservation by its ID. " +
				"Returns reservation date, time, number of guests, and status.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        genai.TypeInteger,
						Description: "Table reservation ID to retrieve details for",
					},
				},
				Required: []string{"id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			reservation, err := backend.do(ctx, http.MethodGet, "/api/v1/restaurant/reservations/"+pathID(args["id"]), bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservation}, nil
		},
	}
}

// RestaurantTableCreateTool returns the restaurant_table_create Tool:
// POST /api/v1/restaurant/reservations.
func RestaurantTableCreateTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "restaurant_table_create",
			Description: "Reserve a table in the hotel restaurant. Requires date, time, and number of guests. " +
				"Returns confirmation with reservation ID and status.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type:        genai.TypeString,
						Description: "Reservation date in YYYY-MM-DD format",
					},
					"time": {
						Type:        genai.TypeString,
						Description: "Reservation time in HH:MM format (e.g. 19:30)",
					},
					"guests": {
						Type:        genai.TypeInteger,
						Description: "Number of guests for the table",
					},
				},
				Required: []string{"date", "time", "guests"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			reservation, err := backend.do(ctx, http.MethodPost, "/api/v1/restaurant/reservations", bearer, args)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservation}, nil
		},
	}
}

// RestaurantTableCancelTool returns the restaurant_table_cancel Tool:
// DELETE /api/v1/restaurant/reservations/{id}.
func RestaurantTableCancelTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "restaurant_table_cancel",
			Description: "Cancel an existing table reservation in the restaurant by its ID. " +
				"This permanently cancels the table reservation.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        genai.TypeInteger,
						Description: "Table reservation ID to cancel",
					},
				},
				Required: []string{"id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			result, err := backend.do(ctx, http.MethodDelete, "/api/v1/restaurant/reservations/"+pathID(args["id"]), bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": result}, nil
		},
	}
}
