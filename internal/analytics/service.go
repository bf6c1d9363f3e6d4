package analytics

import (
	"context"
	"fmt"
	"sort"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

type BookingLister interface {
	List(ctx context.Context) ([]*models.Booking, error)
}

type Catalog interface {
	Route(id string) (models.Route, error)
	Bus(id string) (models.Bus, error)
	ListRoutes(operator string) ([]models.Route, error)
}

// Service aggregates sales figures from stored bookings.
type Service struct {
	bookings BookingLister
	catalog  Catalog
}

func NewService(bookings BookingLister, catalog Catalog) *Service {
	return &Service{bookings: bookings, catalog: catalog}
}

// RouteAnalytics represents aggregated sales for one route
type RouteAnalytics struct {
	RouteID          string              `json:"route_id"`
	Route            string              `json:"route"`
	TotalRevenue     float64             `json:"total_revenue"`
	TotalTicketsSold int                 `json:"total_tickets_sold"`
	Cancelled        int                 `json:"cancelled"`
	DailySales       []DailySalesMetrics `json:"daily_sales"`
	SalesByBus       []BusSalesMetrics   `json:"sales_by_bus"`
}

// DailySalesMetrics contains metrics for one travel date
type DailySalesMetrics struct {
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	TicketsSold int     `json:"tickets_sold"`
}

type BusSalesMetrics struct {
	BusID       string  `json:"bus_id"`
	BusName     string  `json:"bus_name"`
	TicketsSold int     `json:"tickets_sold"`
	Revenue     float64 `json:"revenue"`
}

// RouteSummary contains basic revenue information for a route
type RouteSummary struct {
	RouteID          string  `json:"route_id"`
	Route            string  `json:"route"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalTicketsSold int     `json:"total_tickets_sold"`
}

// OperatorAnalytics represents all routes summary for an operator
type OperatorAnalytics struct {
	Operator         string         `json:"operator"`
	TotalRevenue     float64        `json:"total_revenue"`
	TotalTicketsSold int            `json:"total_tickets_sold"`
	Routes           []RouteSummary `json:"routes"`
}

func sold(b *models.Booking) bool {
	return (b.Status == models.StatusPaid || b.Status == models.StatusConfirmed) && b.Payment != nil
}

// GetRouteAnalytics returns revenue analytics for a route. A non-empty status narrows
// the sold bookings to PAID or CONFIRMED.
func (s *Service) GetRouteAnalytics(ctx context.Context, routeID string, status models.BookingStatus) (*RouteAnalytics, error) {
	route, err := s.catalog.Route(routeID)
	if err != nil {
		return nil, err
	}
	if status != "" && status != models.StatusPaid && status != models.StatusConfirmed {
		return nil, domain.Validation("status", "must be PAID or CONFIRMED")
	}

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	result := &RouteAnalytics{
		RouteID:    route.ID,
		Route:      route.Name(),
		DailySales: []DailySalesMetrics{},
		SalesByBus: []BusSalesMetrics{},
	}
	daily := map[string]*DailySalesMetrics{}
	byBus := map[string]*BusSalesMetrics{}

	for _, b := range bookings {
		if b.Schedule == nil || b.Schedule.RouteID != routeID {
			continue
		}
		if b.Status == models.StatusCancelled {
			result.Cancelled++
			continue
		}
		if !sold(b) || (status != "" && b.Status != status) {
			continue
		}

		amount := b.Payment.Amount
		result.TotalRevenue += amount
		result.TotalTicketsSold++

		d, ok := daily[b.Schedule.Date]
		if !ok {
			d = &DailySalesMetrics{Date: b.Schedule.Date}
			daily[b.Schedule.Date] = d
		}
		d.Revenue += amount
		d.TicketsSold++

		bus, ok := byBus[b.Schedule.BusID]
		if !ok {
			bus = &BusSalesMetrics{BusID: b.Schedule.BusID}
			if info, err := s.catalog.Bus(b.Schedule.BusID); err == nil {
				bus.BusName = info.Name
			}
			byBus[b.Schedule.BusID] = bus
		}
		bus.Revenue += amount
		bus.TicketsSold++
	}

	for _, d := range daily {
		result.DailySales = append(result.DailySales, *d)
	}
	sort.Slice(result.DailySales, func(i, j int) bool { return result.DailySales[i].Date < result.DailySales[j].Date })

	for _, bus := range byBus {
		result.SalesByBus = append(result.SalesByBus, *bus)
	}
	sort.Slice(result.SalesByBus, func(i, j int) bool { return result.SalesByBus[i].BusID < result.SalesByBus[j].BusID })

	return result, nil
}

// GetOperatorAnalytics summarises every route of an operator.
func (s *Service) GetOperatorAnalytics(ctx context.Context, operator string) (*OperatorAnalytics, error) {
	routes, err := s.catalog.ListRoutes(operator)
	if err != nil {
		return nil, err
	}

	result := &OperatorAnalytics{Operator: operator, Routes: make([]RouteSummary, 0, len(routes))}
	for _, route := range routes {
		result.Operator = route.Operator
		ra, err := s.GetRouteAnalytics(ctx, route.ID, "")
		if err != nil {
			return nil, err
		}
		result.Routes = append(result.Routes, RouteSummary{
			RouteID:          ra.RouteID,
			Route:            ra.Route,
			TotalRevenue:     ra.TotalRevenue,
			TotalTicketsSold: ra.TotalTicketsSold,
		})
		result.TotalRevenue += ra.TotalRevenue
		result.TotalTicketsSold += ra.TotalTicketsSold
	}
	return result, nil
}
