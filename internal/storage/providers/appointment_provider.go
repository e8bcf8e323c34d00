package providers

import (
	"context"
	"errors"
	"fmt"

	"artistforms/internal/domains"
	"artistforms/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppointmentProvider reads the appointments table owned by the booking
// module. Only the fields form resolution needs are loaded.
type AppointmentProvider struct {
	db *pgxpool.Pool
}

func NewAppointmentProvider(db *pgxpool.Pool) *AppointmentProvider {
	return &AppointmentProvider{
		db: db,
	}
}

func (s *AppointmentProvider) GetAppointment(ctx context.Context, id string) (domains.Appointment, error) {
	var appointment domains.Appointment
	err := s.db.QueryRow(ctx, `
        SELECT id, artist_id, services
        FROM appointments
        WHERE id = $1`, id).Scan(&appointment.ID, &appointment.ArtistID, &appointment.Services)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domains.Appointment{}, storage.ErrNotFound
		}
		return domains.Appointment{}, fmt.Errorf("query appointment: %w", err)
	}
	return appointment, nil
}
