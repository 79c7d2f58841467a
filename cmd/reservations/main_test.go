package main

import (
	"context"
	"testing"
	"time"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/scheduler"
	"github.com/example/room-reservations/internal/testfixtures"
)

func TestReservationModelConversionRoundTrips(t *testing.T) {
	model := persistence.Reservation{
		ID:        7,
		Start:     time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2024, time.March, 4, 11, 0, 0, 0, time.UTC),
		Priority:  "high",
		Projector: true,
		Capacity:  6,
		Timezone:  "America/New_York",
		CreatedAt: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
	}

	converted := toApplicationReservation(model)
	if converted.Priority != scheduler.PriorityHigh {
		t.Fatalf("expected high priority, got %q", converted.Priority)
	}
	if !converted.Resources.Projector || converted.Resources.Capacity != 6 {
		t.Fatalf("resources did not convert: %+v", converted.Resources)
	}

	back := toPersistenceReservation(converted)
	if back != model {
		t.Fatalf("conversion did not round trip:\n got %+v\nwant %+v", back, model)
	}
}

func TestReservationStoreAdapterBridgesRepository(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	store := newReservationStoreAdapter(harness.Reservations)

	fixture := testfixtures.NewReservationFixture()
	var stored application.Reservation
	err := store.InTransaction(context.Background(), func(tx application.ReservationTx) error {
		var err error
		stored, err = tx.InsertReservation(context.Background(), fixture.Application())
		return err
	})
	if err != nil {
		t.Fatalf("insert through adapter failed: %v", err)
	}
	if stored.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	overlapping, err := store.FindOverlapping(context.Background(), fixture.Start, fixture.End)
	if err != nil {
		t.Fatalf("FindOverlapping failed: %v", err)
	}
	if len(overlapping) != 1 || overlapping[0].ID != stored.ID {
		t.Fatalf("expected the stored reservation, got %+v", overlapping)
	}

	listed, err := store.ListReservations(context.Background())
	if err != nil {
		t.Fatalf("ListReservations failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Timezone != fixture.Timezone {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}
