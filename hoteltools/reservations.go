package hoteltools

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// ReservationsListTool returns the reservations_list Tool: GET /api/v1/reservations.
func ReservationsListTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "reservations_list",
			Description: "Get list of all reservations. Depending on the user's role (guest vs admin), " +
				"backend will return either their own reservations or all reservations.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
				Required:   []string{},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			reservations, err := backend.do(ctx, http.MethodGet, "/api/v1/reservations", bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservations}, nil
		},
	}
}

// ReservationsGetTool returns the reservations_get Tool: GET /api/v1/reservations/{id}.
func ReservationsGetTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "reservations_get",
			Description: "Get detailed information about a specific reservation by its ID. " +
				"Returns reservation status, dates, number of guests, room ID, and total price.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        genai.TypeInteger,
						Description: "Reservation ID to retrieve details for",
					},
				},
				Required: []string{"id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			reservation, err := backend.do(ctx, http.MethodGet, "/api/v1/reservations/"+pathID(args["id"]), bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservation}, nil
		},
	}
}

// ReservationsCreateTool returns the reservations_create Tool: POST /api/v1/reservations.
func ReservationsCreateTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "reservations_create",
			Description: "Create a new room reservation for a guest. Requires room ID, check-in/out dates, " +
				"and number of guests. Returns created reservation with ID, status, and total price.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"roomId": {
						Type:        genai.TypeInteger,
						Description: "ID of the room to reserve",
					},
					"checkInDate": {
						Type:        genai.TypeString,
						Description: "Check-in date in YYYY-MM-DD format",
					},
					"checkOutDate": {
						Type:        genai.TypeString,
						Description: "Check-out date in YYYY-MM-DD format",
					},
					"numberOfAdults": {
						Type:        genai.TypeInteger,
						Description: "Number of adult guests",
					},
					"numberOfChildren": {
						Type:        genai.TypeInteger,
						Description: "Number of children",
					},
				},
				Required: []string{"roomId", "checkInDate", "checkOutDate", "numberOfAdults", "numberOfChildren"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			reservation, err := backend.do(ctx, http.MethodPost, "/api/v1/reservations", bearer, args)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservation}, nil
		},
	}
}

// ReservationsUpdateTool returns the reservations_update Tool: PUT /api/v1/reservations/{id}.
func ReservationsUpdateTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name: "reservations_update",
			Description: "Update an existing reservation. Can modify check-in/out dates, number of guests, " +
				"or reservation status. All fields except ID are optional (partial update).",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        genai.TypeInteger,
						Description: "Reservation ID to update",
					},
					"checkInDate": {
						Type:        genai.TypeString,
						Description: "New check-in date in YYYY-MM-DD format (optional)",
					},
					"checkOutDate": {
						Type:        genai.TypeString,
						Description: "New check-out date in YYYY-MM-DD format (optional)",
					},
					"numberOfAdults": {
						Type:        genai.TypeInteger,
						Description: "New number of adult guests (optional)",
					},
					"numberOfChildren": {
						Type:        genai.TypeInteger,
						Description: "New number of children (optional)",
					},
					"status": {
						Type:        genai.TypeString,
						Description: "New reservation status: PENDING, CONFIRMED, CANCELED (optional)",
					},
				},
				Required: []string{"id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			// The id goes in the path; the body carries only update fields.
			update := make(map[string]any, len(args))
			for k, v := range args {
				if k != "id" {
					update[k] = v
				}
			}
			reservation, err := backend.do(ctx, http.MethodPut, "/api/v1/reservations/"+pathID(args["id"]), bearer, update)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": reservation}, nil
		},
	}
}

// ReservationsCancelTool returns the reservations_cancel Tool: DELETE /api/v1/reservations/{id}.
func ReservationsCancelTool(backend *Backend) Tool {
	return Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "reservations_cancel",
			Description: "Cancel an existing reservation by its ID. This permanently cancels the reservation.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        genai.TypeInteger,
						Description: "Reservation ID to cancel",
					},
				},
				Required: []string{"id"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, bearer string) (map[string]any, error) {
			// Backend answers 204 No Content on success.
			result, err := backend.do(ctx, http.MethodDelete, "/api/v1/reservations/"+pathID(args["id"]), bearer, nil)
			if err != nil {
				return nil, err
			}
			return map[string]any{"result": result}, nil
		},
	}
}
