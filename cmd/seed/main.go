package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garageops/garage-scheduling/internal/db"
	"github.com/garageops/garage-scheduling/internal/schedule"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	clients, err := seedClients(context.Background(), pool, 500)
	if err != nil {
		log.Fatalf("seed clients: %v", err)
	}
	cars, err := seedCars(context.Background(), pool, clients)
	if err != nil {
		log.Fatalf("seed cars: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, clients, cars, 14); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedClients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d clients", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		phone := "+324" + gofakeit.Numerify("########")

		_, err := tx.Exec(ctx, `
			INSERT INTO clients (id, first_name, name, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, first, last, phone)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("clients seeded")
	return ids, nil
}

func seedCars(ctx context.Context, pool *pgxpool.Pool, clients []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	log.Printf("seeding cars for %d clients", len(clients))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cars := make(map[uuid.UUID]uuid.UUID, len(clients))
	for _, clientID := range clients {
		id := uuid.New()
		year := gofakeit.Number(2005, 2026)
		plate := "1-" + gofakeit.LetterN(3) + "-" + gofakeit.Numerify("###")

		_, err := tx.Exec(ctx, `
			INSERT INTO cars (id, client_id, brand, model, year, license_plate, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, id, clientID, gofakeit.CarMaker(), gofakeit.CarModel(), year, plate)
		if err != nil {
			return nil, err
		}
		cars[clientID] = id
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("cars seeded")
	return cars, nil
}

// seedAppointments fills the next `days` calendar days with non-overlapping
// bookings, walking each bay's timeline forward so the per-bay invariant
// holds by construction.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, clients []uuid.UUID, cars map[uuid.UUID]uuid.UUID, days int) error {
	log.Printf("seeding appointments for %d days", days)

	services := []string{
		"Changement pneus",
		"Equilibrage",
		"Geometrie",
		"Permutation",
		"Reparation crevaison",
		"Entretien",
	}
	durations := []int{15, 30, 45, 60}

	const opening, closing = 8 * 60, 18 * 60

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	total := 0
	for day := 0; day < days; day++ {
		date := time.Now().AddDate(0, 0, day).Format("2006-01-02")

		for _, bay := range []schedule.Bay{schedule.BayA, schedule.BayB} {
			cursor := opening
			for cursor < closing {
				// Leave random gaps so the grid has free cells.
				if gofakeit.Number(0, 2) == 0 {
					cursor += schedule.DisplayStep * gofakeit.Number(1, 4)
					continue
				}

				duration := durations[gofakeit.Number(0, len(durations)-1)]
				if cursor+duration > closing {
					break
				}

				clientID := clients[gofakeit.Number(0, len(clients)-1)]
				carID := cars[clientID]
				service := services[gofakeit.Number(0, len(services)-1)]

				_, err := tx.Exec(ctx, `
					INSERT INTO appointments
						(id, date, start_time, duration, bay, client_id, car_id, service_type, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
				`, uuid.New(), date, schedule.FormatMinutes(cursor), duration,
					string(bay), clientID, carID, service)
				if err != nil {
					return err
				}

				cursor += duration
				total++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", total)
	return nil
}
