package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/pkg/metrics"
)

type AppointmentService struct {
	store       ports.DocumentStore
	coordinator ports.CollectionCoordinator
	logger      zerolog.Logger

	now   func() time.Time
	newID func() string
}

var _ ports.AppointmentService = (*AppointmentService)(nil)

func NewAppointmentService(store ports.DocumentStore, coordinator ports.CollectionCoordinator, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		store:       store,
		coordinator: coordinator,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// Book appends a request to the ledger. Only presence of the required
// fields is checked here; the HTTP layer validates formats and the doctor.
func (s *AppointmentService) Book(ctx context.Context, input ports.BookAppointmentInput) (*domain.Appointment, error) {
	appt := domain.Appointment{
		Patient:  strings.TrimSpace(input.Patient),
		Contact:  strings.TrimSpace(input.Contact),
		Provider: strings.TrimSpace(input.Provider),
		Date:     strings.TrimSpace(input.Date),
		Time:     strings.TrimSpace(input.Time),
		Reason:   strings.TrimSpace(input.Reason),
	}
	if missing := missingFields(appt); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	appt.ID = s.newID()
	appt.CreatedAt = s.now()

	err := s.coordinator.Do(ctx, ports.CollectionAppointments, func(ctx context.Context) error {
		s.store.AppendAppointment(ctx, appt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("book appointment: %w", errors.Join(domain.ErrCollectionUnavailable, err))
	}

	metrics.AppointmentsBookedTotal.Inc()
	s.logger.Info().Str("appointment_id", appt.ID).Str("doctor", appt.Provider).Str("date", appt.Date).Msg("appointment booked")
	return &appt, nil
}

// List returns the bookings made for patient, oldest first.
func (s *AppointmentService) List(ctx context.Context, patient string) ([]domain.Appointment, error) {
	patient = strings.TrimSpace(patient)
	out := []domain.Appointment{}
	err := s.coordinator.Do(ctx, ports.CollectionAppointments, func(ctx context.Context) error {
		for _, a := range s.store.LoadAppointments(ctx) {
			if a.Patient == patient {
				out = append(out, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", errors.Join(domain.ErrCollectionUnavailable, err))
	}
	return out, nil
}

func missingFields(a domain.Appointment) []string {
	var missing []string
	if a.Patient == "" {
		missing = append(missing, "patient")
	}
	if a.Provider == "" {
		missing = append(missing, "doctor")
	}
	if a.Date == "" {
		missing = append(missing, "date")
	}
	if a.Time == "" {
		missing = append(missing, "time")
	}
	return missing
}
