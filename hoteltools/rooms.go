package hoteltools

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// RoomsListTool returns the rooms_list Tool: GET /api/v1/rooms.
func RoomsListTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "rooms_list",
			Description: "Get list of all available hotel rooms with details (type, price, capacity, amenities)",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
				Required:   []string{},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			rooms, err := backend.do(ctx, http.MethodGet, "/api/v1/rooms", bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": rooms}, nil
		},
	}
}

// RoomsGetTool returns the rooms_get Tool: GET /api/v1/rooms/{id}.
func RoomsGetTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "rooms_get",
			Description: "Get detailed information about a specific hotel room by its ID. " +
				"Returns room type, price per night, capacity, and amenities.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        genai.TypeInteger,
						Description: "Room ID to retrieve details for",
					},
				},
				Required: []string{"id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			room, err := backend.do(ctx, http.MethodGet, "/api/v1/rooms/"+pathID(args["id"]), bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": room}, nil
		},
	}
}

// RoomsFilterTool returns the rooms_filter Tool: POST /api/v1/rooms/filter.
func RoomsFilterTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "rooms_filter",
			Description: "Get available hotel rooms matching specific criteria (check-in/out dates, " +
				"number of adults and children). Returns list of rooms that are available " +
				"for the specified period and can accommodate the requested number of guests.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"checkInDate": {
						Type:        genai.TypeString,
						Description: "Check-in date in YYYY-MM-DD format (e.g. 2025-10-15)",
					},
					"checkOutDate": {
						Type:        genai.TypeString,
						Description: "Check-out date in YYYY-MM-DD format (e.g. 2025-10-18)",
					},
					"numberOfAdults": {
						Type:        genai.TypeInteger,
						Description: "Number of adult guests (minimum 1)",
					},
					"numberOfChildren": {
						Type:        genai.TypeInteger,
						Description: "Number of children (0 or more)",
					},
				},
				Required: []string{"checkInDate", "checkOutDate", "numberOfAdults", "numberOfChildren"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			rooms, err := backend.do(ctx, http.MethodPost, "/api/v1/rooms/filter", bearer, args)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": rooms}, nil
		},
	}
}
