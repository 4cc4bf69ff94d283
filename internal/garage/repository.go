package garage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/garageops/garage-scheduling/internal/schedule"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrCarNotFound         = errors.New("car not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context, page, pageSize int) (*Page[Client], error)
	SearchClients(ctx context.Context, query string, page, pageSize int) (*Page[Client], error)
	CreateClient(ctx context.Context, firstName, name, phone string) (*Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, firstName, name, phone string) (*Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error

	GetCarByID(ctx context.Context, id uuid.UUID) (*Car, error)
	ListCarsByClient(ctx context.Context, clientID uuid.UUID) ([]Car, error)
	CreateCar(ctx context.Context, car Car) (*Car, error)
	UpdateCar(ctx context.Context, car Car) (*Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)
	// ListAppointmentsByDate returns the full, consistent snapshot of one
	// calendar day, optionally filtered to a single bay.
	ListAppointmentsByDate(ctx context.Context, date string, bay *schedule.Bay) ([]AppointmentDetail, error)
	ListAppointmentsByClient(ctx context.Context, clientID uuid.UUID) ([]AppointmentDetail, error)
	CreateAppointment(ctx context.Context, appt Appointment) (*Appointment, error)
	UpdateAppointment(ctx context.Context, appt Appointment) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// Reminder worker
	FindAppointmentsNeedingReminder(ctx context.Context, date string) ([]AppointmentDetail, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
