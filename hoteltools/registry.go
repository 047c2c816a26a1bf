package hoteltools

// DefaultRegistry builds the full hotel tool catalog against the given
// backend. The returned map is the single registry handed to the
// orchestrator; callers must not mutate it after startup.
func DefaultRegistry(backend *Backend) Registry {
	tools := []Tool{
		RoomsListTool(backend),
		RoomsGetTool(backend),
		RoomsFilterTool(backend),
		ReservationsListTool(backend),
		ReservationsGetTool(backend),
		ReservationsCreateTool(backend),
		ReservationsUpdateTool(backend),
		ReservationsCancelTool(backend),
		RestaurantMenuTool(backend),
		RestaurantTableListTool(backend),
		RestaurantTableGetTool(backend),
		RestaurantTableCreateTool(backend),
		RestaurantTableCancelTool(backend),
	}

	registry := make(Registry, len(tools))
	for _, tool := range tools {
		registry[tool.Declaration.Name] = tool
	}
	return registry
}
