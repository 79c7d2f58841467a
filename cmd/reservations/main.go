package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/config"
	httptransport "github.com/example/room-reservations/internal/http"
	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/persistence/sqlite"
	"github.com/example/room-reservations/internal/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	repo := sqlite.NewReservationRepository(pool)
	if err := repo.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	calendar := scheduler.BusinessCalendar{
		StartHour:   cfg.BusinessStartHour,
		EndHour:     cfg.BusinessEndHour,
		MinDuration: cfg.MinDuration,
		MaxDuration: cfg.MaxDuration,
	}
	finder := scheduler.SlotFinder{
		Calendar:    calendar,
		SlotLength:  time.Hour,
		HorizonDays: cfg.SearchHorizonDays,
	}
	zones := scheduler.Zones(cfg.AllowedTimezones)

	store := newReservationStoreAdapter(repo)
	service := application.NewReservationServiceWithLogger(store, zones, calendar, finder, time.Now, logger)

	reservationHandler := httptransport.NewReservationHandler(service, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Reservations:   reservationHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type reservationStoreAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationStoreAdapter(repo persistence.ReservationRepository) *reservationStoreAdapter {
	return &reservationStoreAdapter{repo: repo}
}

func (a *reservationStoreAdapter) InTransaction(ctx context.Context, fn func(tx application.ReservationTx) error) error {
	return a.repo.InTransaction(ctx, func(tx persistence.ReservationTx) error {
		return fn(&reservationTxAdapter{tx: tx})
	})
}

func (a *reservationStoreAdapter) FindOverlapping(ctx context.Context, start, end time.Time) ([]application.Reservation, error) {
	models, err := a.repo.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(models), nil
}

func (a *reservationStoreAdapter) ListReservations(ctx context.Context) ([]application.Reservation, error) {
	models, err := a.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(models), nil
}

type reservationTxAdapter struct {
	tx persistence.ReservationTx
}

func (a *reservationTxAdapter) FindOverlapping(ctx context.Context, start, end time.Time) ([]application.Reservation, error) {
	models, err := a.tx.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toApplicationReservations(models), nil
}

func (a *reservationTxAdapter) GetReservation(ctx context.Context, id int64) (application.Reservation, error) {
	model, err := a.tx.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(model), nil
}

func (a *reservationTxAdapter) InsertReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	stored, err := a.tx.InsertReservation(ctx, toPersistenceReservation(reservation))
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

func (a *reservationTxAdapter) UpdateReservationTimes(ctx context.Context, id int64, start, end time.Time) error {
	return a.tx.UpdateReservationTimes(ctx, id, start, end)
}

func toApplicationReservation(model persistence.Reservation) application.Reservation {
	priority, _ := scheduler.ParsePriority(model.Priority)
	return application.Reservation{
		ID:       model.ID,
		Start:    model.Start,
		End:      model.End,
		Priority: priority,
		Resources: application.Resources{
			Projector: model.Projector,
			Capacity:  model.Capacity,
		},
		Timezone:  model.Timezone,
		CreatedAt: model.CreatedAt,
	}
}

func toApplicationReservations(models []persistence.Reservation) []application.Reservation {
	if len(models) == 0 {
		return nil
	}
	reservations := make([]application.Reservation, 0, len(models))
	for _, model := range models {
		reservations = append(reservations, toApplicationReservation(model))
	}
	return reservations
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:        reservation.ID,
		Start:     reservation.Start,
		End:       reservation.End,
		Priority:  string(reservation.Priority),
		Projector: reservation.Resources.Projector,
		Capacity:  reservation.Resources.Capacity,
		Timezone:  reservation.Timezone,
		CreatedAt: reservation.CreatedAt,
	}
}
