package garage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garageops/garage-scheduling/internal/schedule"
)

type Client struct {
	ID        uuid.UUID
	FirstName string
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.Name
}

type Car struct {
	ID           uuid.UUID
	ClientID     uuid.UUID
	Brand        string
	Model        string
	Year         *int
	LicensePlate *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShortDescription renders the car for schedule labels, e.g. "Peugeot 208 (2019)".
func (c Car) ShortDescription() string {
	if c.Year != nil {
		return fmt.Sprintf("%s %s (%d)", c.Brand, c.Model, *c.Year)
	}
	return c.Brand + " " + c.Model
}

type Appointment struct {
	ID          uuid.UUID
	Date        string // YYYY-MM-DD, local calendar day
	Time        string // HH:mm
	Duration    int    // minutes
	Bay         schedule.Bay
	ClientID    uuid.UUID
	CarID       *uuid.UUID
	ServiceType *string
	ServiceNote *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppointmentDetail is an appointment hydrated with the display strings the
// schedule grid carries through.
type AppointmentDetail struct {
	Appointment
	ClientFullName string
	CarInfo        string
}

// Booking converts the detail into the engine's snapshot form.
func (d AppointmentDetail) Booking() schedule.Booking {
	var serviceType string
	if d.ServiceType != nil {
		serviceType = *d.ServiceType
	}
	return schedule.Booking{
		ID:          d.ID.String(),
		Bay:         d.Bay,
		Time:        d.Time,
		Duration:    d.Duration,
		ClientName:  d.ClientFullName,
		ServiceType: serviceType,
		CarInfo:     d.CarInfo,
	}
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// Page is one page of a listing plus the total row count for the pager.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}
