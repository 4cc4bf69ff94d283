package garage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garageops/garage-scheduling/internal/schedule"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanClient(row pgx.Row) (*Client, error) {
	var c Client

	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.Name,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanCar(row pgx.Row) (*Car, error) {
	var c Car
	var year *int
	var plate *string

	err := row.Scan(
		&c.ID,
		&c.ClientID,
		&c.Brand,
		&c.Model,
		&year,
		&plate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}

	c.Year = year
	c.LicensePlate = plate
	return &c, nil
}

const appointmentDetailColumns = `
	a.id, to_char(a.date, 'YYYY-MM-DD'), to_char(a.start_time, 'HH24:MI'),
	a.duration, a.bay, a.client_id, a.car_id, a.service_type, a.service_note,
	a.created_at, a.updated_at,
	c.first_name || ' ' || c.name,
	COALESCE(v.brand || ' ' || v.model || COALESCE(' (' || v.year || ')', ''), '')
`

const appointmentDetailJoins = `
	FROM appointments a
	JOIN clients c ON c.id = a.client_id
	LEFT JOIN cars v ON v.id = a.car_id
`

func scanAppointmentDetail(row pgx.Row) (*AppointmentDetail, error) {
	var d AppointmentDetail
	var bay string
	var carID *uuid.UUID
	var serviceType, serviceNote *string

	err := row.Scan(
		&d.ID,
		&d.Date,
		&d.Time,
		&d.Duration,
		&bay,
		&d.ClientID,
		&carID,
		&serviceType,
		&serviceNote,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.ClientFullName,
		&d.CarInfo,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	d.Bay = schedule.Bay(bay)
	d.CarID = carID
	d.ServiceType = serviceType
	d.ServiceNote = serviceNote
	return &d, nil
}

func collectAppointmentDetails(rows pgx.Rows) ([]AppointmentDetail, error) {
	defer rows.Close()

	var result []AppointmentDetail
	for rows.Next() {
		d, err := scanAppointmentDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Clients

func (r *PgRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, name, phone, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row)
}

func (r *PgRepository) ListClients(ctx context.Context, page, pageSize int) (*Page[Client], error) {
	return r.clientPage(ctx, `
		SELECT id, first_name, name, phone, created_at, updated_at
		FROM clients
		ORDER BY name, first_name
		LIMIT $1 OFFSET $2
	`, `
		SELECT count(*) FROM clients
	`, nil, page, pageSize)
}

func (r *PgRepository) SearchClients(ctx context.Context, query string, page, pageSize int) (*Page[Client], error) {
	pattern := "%" + query + "%"
	return r.clientPage(ctx, `
		SELECT id, first_name, name, phone, created_at, updated_at
		FROM clients
		WHERE first_name ILIKE $3 OR name ILIKE $3 OR phone ILIKE $3
		ORDER BY name, first_name
		LIMIT $1 OFFSET $2
	`, `
		SELECT count(*) FROM clients
		WHERE first_name ILIKE $1 OR name ILIKE $1 OR phone ILIKE $1
	`, &pattern, page, pageSize)
}

func (r *PgRepository) clientPage(ctx context.Context, listSQL, countSQL string, pattern *string, page, pageSize int) (*Page[Client], error) {
	offset := (page - 1) * pageSize

	listArgs := []any{pageSize, offset}
	var countArgs []any
	if pattern != nil {
		listArgs = append(listArgs, *pattern)
		countArgs = append(countArgs, *pattern)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Page[Client]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (r *PgRepository) CreateClient(ctx context.Context, firstName, name, phone string) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, first_name, name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, first_name, name, phone, created_at, updated_at
	`, uuid.New(), firstName, name, phone)
	return scanClient(row)
}

func (r *PgRepository) UpdateClient(ctx context.Context, id uuid.UUID, firstName, name, phone string) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET first_name = $2,
		    name = $3,
		    phone = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, first_name, name, phone, created_at, updated_at
	`, id, firstName, name, phone)
	return scanClient(row)
}

func (r *PgRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// Cars

func (r *PgRepository) GetCarByID(ctx context.Context, id uuid.UUID) (*Car, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, client_id, brand, model, year, license_plate, created_at, updated_at
		FROM cars
		WHERE id = $1
	`, id)
	return scanCar(row)
}

func (r *PgRepository) ListCarsByClient(ctx context.Context, clientID uuid.UUID) ([]Car, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, brand, model, year, license_plate, created_at, updated_at
		FROM cars
		WHERE client_id = $1
		ORDER BY brand, model
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) CreateCar(ctx context.Context, car Car) (*Car, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO cars (id, client_id, brand, model, year, license_plate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, client_id, brand, model, year, license_plate, created_at, updated_at
	`, uuid.New(), car.ClientID, car.Brand, car.Model, car.Year, car.LicensePlate)
	return scanCar(row)
}

func (r *PgRepository) UpdateCar(ctx context.Context, car Car) (*Car, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE cars
		SET brand = $2,
		    model = $3,
		    year = $4,
		    license_plate = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, client_id, brand, model, year, license_plate, created_at, updated_at
	`, car.ID, car.Brand, car.Model, car.Year, car.LicensePlate)
	return scanCar(row)
}

func (r *PgRepository) DeleteCar(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCarNotFound
	}
	return nil
}

// Appointments

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+appointmentDetailColumns+appointmentDetailJoins+` WHERE a.id = $1`,
		id)
	return scanAppointmentDetail(row)
}

func (r *PgRepository) ListAppointmentsByDate(ctx context.Context, date string, bay *schedule.Bay) ([]AppointmentDetail, error) {
	sql := `SELECT ` + appointmentDetailColumns + appointmentDetailJoins + ` WHERE a.date = $1`
	args := []any{date}
	if bay != nil {
		sql += ` AND a.bay = $2`
		args = append(args, string(*bay))
	}
	sql += ` ORDER BY a.bay, a.start_time`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectAppointmentDetails(rows)
}

func (r *PgRepository) ListAppointmentsByClient(ctx context.Context, clientID uuid.UUID) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentDetailColumns+appointmentDetailJoins+`
		 WHERE a.client_id = $1
		 ORDER BY a.date DESC, a.start_time DESC`,
		clientID)
	if err != nil {
		return nil, err
	}
	return collectAppointmentDetails(rows)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	id := uuid.New()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments
			(id, date, start_time, duration, bay, client_id, car_id, service_type, service_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
	`, id, appt.Date, appt.Time, appt.Duration, string(appt.Bay),
		appt.ClientID, appt.CarID, appt.ServiceType, appt.ServiceNote)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	appt.ID = id
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	return &appt, nil
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, appt Appointment) (*Appointment, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET date = $2,
		    start_time = $3,
		    duration = $4,
		    bay = $5,
		    client_id = $6,
		    car_id = $7,
		    service_type = $8,
		    service_note = $9,
		    updated_at = now()
		WHERE id = $1
	`, appt.ID, appt.Date, appt.Time, appt.Duration, string(appt.Bay),
		appt.ClientID, appt.CarID, appt.ServiceType, appt.ServiceNote)
	if err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAppointmentNotFound
	}

	appt.UpdatedAt = time.Now()
	return &appt, nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// FindAppointmentsNeedingReminder returns appointments on date that have no
// reminder event logged yet.
func (r *PgRepository) FindAppointmentsNeedingReminder(ctx context.Context, date string) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentDetailColumns+appointmentDetailJoins+`
		 WHERE a.date = $1
		   AND NOT EXISTS (
			SELECT 1 FROM event_logs e
			WHERE e.appointment_id = a.id AND e.event_type = $2
		   )
		 ORDER BY a.start_time`,
		date, EventAppointmentReminder)
	if err != nil {
		return nil, err
	}
	return collectAppointmentDetails(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
