package garage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/garageops/garage-scheduling/internal/config"
	redisclient "github.com/garageops/garage-scheduling/internal/redis"
	"github.com/garageops/garage-scheduling/internal/schedule"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentUpdated   = "APPOINTMENT_UPDATED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentReminder  = "APPOINTMENT_REMINDER"
)

var (
	ErrSlotTaken       = errors.New("requested window overlaps an existing appointment or opening hours")
	ErrBayBeingBooked  = errors.New("bay is currently being booked, please retry")
	ErrInvalidBay      = errors.New("bay must be A or B")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime     = errors.New("time must be HH:mm")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidName     = errors.New("first name and name must be 2-100 characters")
	ErrInvalidPhone    = errors.New("phone must be 1-20 characters")
	ErrInvalidCar      = errors.New("brand and model must be 1-50 characters")
	ErrCarWrongClient  = errors.New("car does not belong to the given client")
)

// DayCache caches one day's appointment snapshot. Implementations are
// best-effort: a miss or failure just falls through to the database.
type DayCache interface {
	Get(ctx context.Context, date string) ([]byte, bool)
	Set(ctx context.Context, date string, payload []byte)
	Invalidate(ctx context.Context, date string)
}

type Service struct {
	repo   Repository
	locker redisclient.Locker
	cache  DayCache
	cfg    config.Config

	opening int
	closing int
	step    int
}

func NewService(repo Repository, locker redisclient.Locker, cache DayCache, cfg config.Config) *Service {
	step := cfg.DisplayStep
	if step <= 0 {
		step = schedule.DisplayStep
	}
	return &Service{
		repo:    repo,
		locker:  locker,
		cache:   cache,
		cfg:     cfg,
		opening: schedule.ToMinutes(cfg.OpeningTime),
		closing: schedule.ToMinutes(cfg.ClosingTime),
		step:    step,
	}
}

// AppointmentParams carries the client-supplied fields of a booking.
type AppointmentParams struct {
	Date        string
	Time        string
	Duration    int
	Bay         string
	ClientID    uuid.UUID
	CarID       *uuid.UUID
	ServiceType *string
	ServiceNote *string
}

func (s *Service) validateAppointmentParams(p *AppointmentParams) error {
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return ErrInvalidDate
	}
	if res := schedule.ParseHHMM(p.Time); res.Defaulted {
		return ErrInvalidTime
	}
	if !schedule.ValidBay(p.Bay) {
		return ErrInvalidBay
	}
	if p.Duration < 0 {
		return ErrInvalidDuration
	}
	if p.Duration == 0 {
		// Absent duration books one display cell.
		p.Duration = s.step
	}
	return nil
}

// CreateAppointment places a new booking on a bay. A per bay-day Redis lock
// guards the availability re-check so two concurrent requests for the same
// bay cannot both pass it; the database snapshot read inside the critical
// section is the final authority, not the client's earlier grid.
func (s *Service) CreateAppointment(ctx context.Context, p AppointmentParams) (*Appointment, error) {
	if err := s.validateAppointmentParams(&p); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetClientByID(ctx, p.ClientID); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	if err := s.checkCar(ctx, p.CarID, p.ClientID); err != nil {
		return nil, err
	}

	bay := schedule.Bay(p.Bay)

	var created *Appointment

	err := s.locker.WithBayLock(ctx, p.Date, p.Bay, func(lockCtx context.Context) error {
		snapshot, err := s.repo.ListAppointmentsByDate(lockCtx, p.Date, &bay)
		if err != nil {
			return fmt.Errorf("load day snapshot: %w", err)
		}

		start := schedule.ToMinutes(p.Time)
		if !schedule.IsAvailable(bookings(snapshot), bay, start, p.Duration, s.opening, s.closing) {
			return ErrSlotTaken
		}

		appt, err := s.repo.CreateAppointment(lockCtx, Appointment{
			Date:        p.Date,
			Time:        p.Time,
			Duration:    p.Duration,
			Bay:         bay,
			ClientID:    p.ClientID,
			CarID:       p.CarID,
			ServiceType: p.ServiceType,
			ServiceNote: p.ServiceNote,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentCreated, map[string]any{
			"date":     p.Date,
			"time":     p.Time,
			"duration": p.Duration,
			"bay":      p.Bay,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBayBeingBooked
		}
		return nil, err
	}

	s.invalidateDay(ctx, created.Date)
	return created, nil
}

// UpdateAppointment moves or edits an existing booking. The conflict check
// excludes the appointment's own interval so it can keep its place.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, p AppointmentParams) (*Appointment, error) {
	if err := s.validateAppointmentParams(&p); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetClientByID(ctx, p.ClientID); err != nil {
		if errors.Is(err, ErrClientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	if err := s.checkCar(ctx, p.CarID, p.ClientID); err != nil {
		return nil, err
	}

	bay := schedule.Bay(p.Bay)

	var updated *Appointment

	err = s.locker.WithBayLock(ctx, p.Date, p.Bay, func(lockCtx context.Context) error {
		snapshot, err := s.repo.ListAppointmentsByDate(lockCtx, p.Date, &bay)
		if err != nil {
			return fmt.Errorf("load day snapshot: %w", err)
		}

		others := snapshot[:0:0]
		for _, d := range snapshot {
			if d.ID != id {
				others = append(others, d)
			}
		}

		start := schedule.ToMinutes(p.Time)
		if !schedule.IsAvailable(bookings(others), bay, start, p.Duration, s.opening, s.closing) {
			return ErrSlotTaken
		}

		appt, err := s.repo.UpdateAppointment(lockCtx, Appointment{
			ID:          id,
			Date:        p.Date,
			Time:        p.Time,
			Duration:    p.Duration,
			Bay:         bay,
			ClientID:    p.ClientID,
			CarID:       p.CarID,
			ServiceType: p.ServiceType,
			ServiceNote: p.ServiceNote,
		})
		if err != nil {
			return err
		}

		updated = appt

		s.logEvent(lockCtx, id, EventAppointmentUpdated, map[string]any{
			"date": p.Date,
			"time": p.Time,
			"bay":  p.Bay,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBayBeingBooked
		}
		return nil, err
	}

	s.invalidateDay(ctx, existing.Date)
	if updated.Date != existing.Date {
		s.invalidateDay(ctx, updated.Date)
	}
	return updated, nil
}

// CancelAppointment removes a booking and frees its window.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	s.logEvent(ctx, id, EventAppointmentCancelled, map[string]any{
		"date": existing.Date,
		"time": existing.Time,
		"bay":  string(existing.Bay),
	})

	s.invalidateDay(ctx, existing.Date)
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

func (s *Service) ListAppointmentsByDay(ctx context.Context, date string, bay *schedule.Bay) ([]AppointmentDetail, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}
	if bay != nil && !schedule.ValidBay(string(*bay)) {
		return nil, ErrInvalidBay
	}

	snapshot, err := s.daySnapshot(ctx, date)
	if err != nil {
		return nil, err
	}
	if bay == nil {
		return snapshot, nil
	}

	var filtered []AppointmentDetail
	for _, d := range snapshot {
		if d.Bay == *bay {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

func (s *Service) ListAppointmentsByClient(ctx context.Context, clientID uuid.UUID) ([]AppointmentDetail, error) {
	return s.repo.ListAppointmentsByClient(ctx, clientID)
}

// DaySchedule classifies one day's grid for a bay. readOnly callers (the
// dashboard) get no-room cells collapsed to free.
func (s *Service) DaySchedule(ctx context.Context, date string, bay schedule.Bay, requestedDuration int, readOnly bool, now time.Time) ([]schedule.Slot, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}
	if !schedule.ValidBay(string(bay)) {
		return nil, ErrInvalidBay
	}
	if requestedDuration < 0 {
		return nil, ErrInvalidDuration
	}

	snapshot, err := s.daySnapshot(ctx, date)
	if err != nil {
		return nil, err
	}

	return schedule.Classify(bookings(snapshot), date, bay, requestedDuration, now, schedule.Options{
		Opening:  s.opening,
		Closing:  s.closing,
		Step:     s.step,
		ReadOnly: readOnly,
	}), nil
}

// RecordDueReminders logs a reminder event for every appointment on the next
// calendar day that has none yet. Called periodically by the reminder worker;
// the NOT EXISTS query makes reruns idempotent.
func (s *Service) RecordDueReminders(ctx context.Context, now time.Time) (int, error) {
	date := schedule.LocalDate(now.AddDate(0, 0, 1))

	due, err := s.repo.FindAppointmentsNeedingReminder(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("find appointments needing reminder: %w", err)
	}

	for _, d := range due {
		s.logEvent(ctx, d.ID, EventAppointmentReminder, map[string]any{
			"date":   d.Date,
			"time":   d.Time,
			"bay":    string(d.Bay),
			"client": d.ClientFullName,
		})
	}

	return len(due), nil
}

// Clients

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClientByID(ctx, id)
}

func (s *Service) ListClients(ctx context.Context, page, pageSize int) (*Page[Client], error) {
	page, pageSize = clampPaging(page, pageSize)
	return s.repo.ListClients(ctx, page, pageSize)
}

func (s *Service) SearchClients(ctx context.Context, query string, page, pageSize int) (*Page[Client], error) {
	page, pageSize = clampPaging(page, pageSize)
	if query == "" {
		return s.repo.ListClients(ctx, page, pageSize)
	}
	return s.repo.SearchClients(ctx, query, page, pageSize)
}

func (s *Service) CreateClient(ctx context.Context, firstName, name, phone string) (*Client, error) {
	if err := validateClientFields(firstName, name, phone); err != nil {
		return nil, err
	}
	return s.repo.CreateClient(ctx, firstName, name, phone)
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, firstName, name, phone string) (*Client, error) {
	if err := validateClientFields(firstName, name, phone); err != nil {
		return nil, err
	}
	return s.repo.UpdateClient(ctx, id, firstName, name, phone)
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, id)
}

// Cars

func (s *Service) GetCar(ctx context.Context, id uuid.UUID) (*Car, error) {
	return s.repo.GetCarByID(ctx, id)
}

func (s *Service) ListCarsByClient(ctx context.Context, clientID uuid.UUID) ([]Car, error) {
	if _, err := s.repo.GetClientByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListCarsByClient(ctx, clientID)
}

func (s *Service) CreateCar(ctx context.Context, car Car) (*Car, error) {
	if car.Brand == "" || car.Model == "" || len(car.Brand) > 50 || len(car.Model) > 50 {
		return nil, ErrInvalidCar
	}
	if _, err := s.repo.GetClientByID(ctx, car.ClientID); err != nil {
		return nil, err
	}
	return s.repo.CreateCar(ctx, car)
}

func (s *Service) UpdateCar(ctx context.Context, car Car) (*Car, error) {
	if car.Brand == "" || car.Model == "" || len(car.Brand) > 50 || len(car.Model) > 50 {
		return nil, ErrInvalidCar
	}
	if _, err := s.repo.GetCarByID(ctx, car.ID); err != nil {
		return nil, err
	}
	return s.repo.UpdateCar(ctx, car)
}

func (s *Service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCar(ctx, id)
}

// Helpers

func (s *Service) checkCar(ctx context.Context, carID *uuid.UUID, clientID uuid.UUID) error {
	if carID == nil {
		return nil
	}
	car, err := s.repo.GetCarByID(ctx, *carID)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			return err
		}
		return fmt.Errorf("load car: %w", err)
	}
	if car.ClientID != clientID {
		return ErrCarWrongClient
	}
	return nil
}

// daySnapshot reads one day's appointments through the cache. Cache failures
// fall through to the database silently.
func (s *Service) daySnapshot(ctx context.Context, date string) ([]AppointmentDetail, error) {
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, date); ok {
			var snapshot []AppointmentDetail
			if err := json.Unmarshal(payload, &snapshot); err == nil {
				return snapshot, nil
			}
			s.cache.Invalidate(ctx, date)
		}
	}

	snapshot, err := s.repo.ListAppointmentsByDate(ctx, date, nil)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			s.cache.Set(ctx, date, payload)
		}
	}

	return snapshot, nil
}

func (s *Service) invalidateDay(ctx context.Context, date string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, date)
	}
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}

func bookings(snapshot []AppointmentDetail) []schedule.Booking {
	out := make([]schedule.Booking, 0, len(snapshot))
	for _, d := range snapshot {
		out = append(out, d.Booking())
	}
	return out
}

func validateClientFields(firstName, name, phone string) error {
	if len(firstName) < 2 || len(firstName) > 100 || len(name) < 2 || len(name) > 100 {
		return ErrInvalidName
	}
	if phone == "" || len(phone) > 20 {
		return ErrInvalidPhone
	}
	return nil
}

func clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20 // default
	}
	if pageSize > 100 {
		pageSize = 100 // max
	}
	return page, pageSize
}
