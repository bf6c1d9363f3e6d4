package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ms-bus-booking/internal/domain"
	"ms-bus-booking/internal/models"
)

const DateLayout = "2006-01-02"

// SeatCounter is the slice of the seat ledger the catalog needs for availability counts.
type SeatCounter interface {
	AvailableSeats(ctx context.Context, schedule models.Schedule) ([]int, error)
}

// Catalog is read-only reference data: operators → routes → buses. Buses run daily.
type Catalog struct {
	routes     map[string]models.Route
	buses      map[string]models.Bus
	byOperator map[string][]models.Route
	byRoute    map[string][]models.Bus
	operators  []string

	Seats      SeatCounter
	WindowDays int
	Now        func() time.Time
}

func New(routes []models.Route, buses []models.Bus, seats SeatCounter, windowDays int) *Catalog {
	c := &Catalog{
		routes:     make(map[string]models.Route, len(routes)),
		buses:      make(map[string]models.Bus, len(buses)),
		byOperator: make(map[string][]models.Route),
		byRoute:    make(map[string][]models.Bus),
		Seats:      seats,
		WindowDays: windowDays,
		Now:        time.Now,
	}
	if c.WindowDays <= 0 {
		c.WindowDays = 1
	}

	for _, r := range routes {
		c.routes[r.ID] = r
		if _, seen := c.byOperator[r.Operator]; !seen {
			c.operators = append(c.operators, r.Operator)
		}
		c.byOperator[r.Operator] = append(c.byOperator[r.Operator], r)
	}
	for _, b := range buses {
		c.buses[b.ID] = b
		c.byRoute[b.RouteID] = append(c.byRoute[b.RouteID], b)
	}
	sort.Strings(c.operators)
	return c
}

func NewDefault(seats SeatCounter, windowDays int) *Catalog {
	return New(DefaultRoutes(), DefaultBuses(), seats, windowDays)
}

func (c *Catalog) ListOperators() []string {
	out := make([]string, len(c.operators))
	copy(out, c.operators)
	return out
}

// ListRoutes matches the operator name case-insensitively.
func (c *Catalog) ListRoutes(operator string) ([]models.Route, error) {
	for name, routes := range c.byOperator {
		if strings.EqualFold(name, strings.TrimSpace(operator)) {
			out := make([]models.Route, len(routes))
			copy(out, routes)
			return out, nil
		}
	}
	return []models.Route{}, domain.NotFound("operator %q not found", operator)
}

func (c *Catalog) Route(id string) (models.Route, error) {
	r, ok := c.routes[id]
	if !ok {
		return models.Route{}, domain.NotFound("route %q not found", id)
	}
	return r, nil
}

func (c *Catalog) Bus(id string) (models.Bus, error) {
	b, ok := c.buses[id]
	if !ok {
		return models.Bus{}, domain.NotFound("bus %q not found", id)
	}
	return b, nil
}

func (c *Catalog) BusesForRoute(routeID string) []models.Bus {
	buses := c.byRoute[routeID]
	out := make([]models.Bus, len(buses))
	copy(out, buses)
	return out
}

// Schedule resolves the run of busID on date.
func (c *Catalog) Schedule(busID, date string) (models.Schedule, error) {
	bus, err := c.Bus(busID)
	if err != nil {
		return models.Schedule{}, err
	}
	if err := ValidateDate(date); err != nil {
		return models.Schedule{}, err
	}
	return models.Schedule{RouteID: bus.RouteID, BusID: bus.ID, Date: date, Capacity: bus.Capacity}, nil
}

// SeatMap reports the free seats of one bus run.
func (c *Catalog) SeatMap(ctx context.Context, busID, date string) (models.SeatAvailability, error) {
	schedule, err := c.Schedule(busID, date)
	if err != nil {
		return models.SeatAvailability{}, err
	}
	seats := make([]int, 0, schedule.Capacity)
	if c.Seats == nil {
		for n := 1; n <= schedule.Capacity; n++ {
			seats = append(seats, n)
		}
	} else if seats, err = c.Seats.AvailableSeats(ctx, schedule); err != nil {
		return models.SeatAvailability{}, fmt.Errorf("available seats for %s: %w", schedule.Key(), err)
	}
	return models.SeatAvailability{
		BusID:          schedule.BusID,
		Date:           schedule.Date,
		Capacity:       schedule.Capacity,
		AvailableSeats: seats,
	}, nil
}

// ListSchedules lists every bus of the route on date, or over the next WindowDays days when
// date is empty.
func (c *Catalog) ListSchedules(ctx context.Context, routeID, date string) ([]models.ScheduleSummary, error) {
	if _, err := c.Route(routeID); err != nil {
		return []models.ScheduleSummary{}, err
	}

	var dates []string
	if date != "" {
		if err := ValidateDate(date); err != nil {
			return nil, err
		}
		dates = []string{date}
	} else {
		today := c.Now()
		for i := 0; i < c.WindowDays; i++ {
			dates = append(dates, today.AddDate(0, 0, i).Format(DateLayout))
		}
	}

	buses := c.BusesForRoute(routeID)
	out := []models.ScheduleSummary{}
	for _, d := range dates {
		for _, bus := range buses {
			schedule := models.Schedule{RouteID: routeID, BusID: bus.ID, Date: d, Capacity: bus.Capacity}
			available := bus.Capacity
			if c.Seats != nil {
				seats, err := c.Seats.AvailableSeats(ctx, schedule)
				if err != nil {
					return nil, fmt.Errorf("count seats for %s: %w", schedule.Key(), err)
				}
				available = len(seats)
			}
			out = append(out, models.ScheduleSummary{
				RouteID:        routeID,
				BusID:          bus.ID,
				BusName:        bus.Name,
				Date:           d,
				Departure:      bus.Departure,
				Capacity:       bus.Capacity,
				AvailableSeats: available,
				Fare:           bus.Fare,
			})
		}
	}
	return out, nil
}

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return domain.Validation("date", "must be a calendar date in YYYY-MM-DD format, got %q", date)
	}
	return nil
}
