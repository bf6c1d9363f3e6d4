package catalog

import "ms-bus-booking/internal/models"

// DefaultRoutes is the operator network served by the demo deployment.
func DefaultRoutes() []models.Route {
	return []models.Route{
		{ID: "GAR-HYD-BLR", Operator: "Garuda", Origin: "Hyd", Destination: "Bangalore"},
		{ID: "GAR-BLR-MAA", Operator: "Garuda", Origin: "Bangalore", Destination: "Chennai"},
		{ID: "VOL-MAA-BOM", Operator: "Volvo", Origin: "Chennai", Destination: "Mumbai"},
		{ID: "VOL-BOM-PNQ", Operator: "Volvo", Origin: "Mumbai", Destination: "Pune"},
		{ID: "GRL-DEL-AGR", Operator: "GreenLines", Origin: "Delhi", Destination: "Agra"},
		{ID: "GRL-AGR-JAI", Operator: "GreenLines", Origin: "Agra", Destination: "Jaipur"},
		{ID: "ABB-MAA-CBE", Operator: "AbhiBus", Origin: "Chennai", Destination: "Coimbatore"},
		{ID: "ABB-CBE-TRZ", Operator: "AbhiBus", Origin: "Coimbatore", Destination: "Trichy"},
	}
}

func DefaultBuses() []models.Bus {
	return []models.Bus{
		{ID: "B1001", RouteID: "VOL-MAA-BOM", Name: "Volvo Multi-Axle Sleeper", Capacity: 5, Fare: 250.0, Departure: "21:30"},
		{ID: "B1002", RouteID: "VOL-MAA-BOM", Name: "Volvo 9600 Seater", Capacity: 40, Fare: 1450.0, Departure: "18:00"},
		{ID: "B1101", RouteID: "VOL-BOM-PNQ", Name: "Volvo Shivneri", Capacity: 40, Fare: 520.0, Departure: "07:15"},
		{ID: "B2001", RouteID: "GAR-HYD-BLR", Name: "Garuda Plus", Capacity: 40, Fare: 1100.0, Departure: "22:00"},
		{ID: "B2101", RouteID: "GAR-BLR-MAA", Name: "Garuda AC Seater", Capacity: 40, Fare: 780.0, Departure: "06:30"},
		{ID: "B3001", RouteID: "GRL-DEL-AGR", Name: "GreenLines Express", Capacity: 40, Fare: 450.0, Departure: "08:00"},
		{ID: "B3101", RouteID: "GRL-AGR-JAI", Name: "GreenLines Express", Capacity: 40, Fare: 480.0, Departure: "14:00"},
		{ID: "B4001", RouteID: "ABB-MAA-CBE", Name: "AbhiBus Sleeper", Capacity: 40, Fare: 900.0, Departure: "22:45"},
		{ID: "B4101", RouteID: "ABB-CBE-TRZ", Name: "AbhiBus Seater", Capacity: 40, Fare: 350.0, Departure: "10:30"},
	}
}
