package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/pkg/metrics"
)

// Store implements ports.DocumentStore over a Backend. Every failure is
// logged and absorbed: loads fall back to the collection default and saves
// leave the previous document in place.
type Store struct {
	backend    Backend
	normalizer Normalizer
	log        zerolog.Logger
}

var _ ports.DocumentStore = (*Store)(nil)

// NewStore wraps backend. The normalizer supplies the clock and id source
// used when legacy comments are migrated.
func NewStore(backend Backend, normalizer Normalizer, log zerolog.Logger) *Store {
	return &Store{backend: backend, normalizer: normalizer, log: log}
}

// ── History ───────────────────────────────────────────────────────────────────

func (s *Store) LoadHistory(ctx context.Context) domain.History {
	raw, ok := s.read(ctx, CollectionHistory)
	if !ok {
		return domain.History{}
	}

	var h domain.History
	if err := json.Unmarshal(raw, &h); err != nil {
		s.undecodable(ctx, CollectionHistory, raw, err)
		return domain.History{}
	}
	if h == nil {
		h = domain.History{}
	}
	return h
}

func (s *Store) SaveHistory(ctx context.Context, h domain.History) {
	if h == nil {
		h = domain.History{}
	}
	s.write(ctx, CollectionHistory, h)
}

// ── Comments ──────────────────────────────────────────────────────────────────

// LoadComments normalises whatever is on disk. Absent documents are created
// and legacy shapes are rewritten canonically so later reads are stable.
// Unrecognised documents are quarantined before being replaced.
func (s *Store) LoadComments(ctx context.Context) domain.Board {
	raw, err := s.backend.Read(ctx, CollectionComments)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.fail(CollectionComments, "read", err)
		return domain.NewBoard()
	}

	board, shape := s.normalizer.Decode(raw)
	if shape == ShapeUnrecognized {
		s.log.Warn().
			Str("collection", CollectionComments).
			Int("bytes", len(raw)).
			Msg("unrecognized comments document, resetting to empty board")
		if !s.quarantine(ctx, CollectionComments, raw) {
			return board
		}
	}

	encoded, err := Encode(board)
	if err != nil {
		s.fail(CollectionComments, "encode", err)
		return board
	}
	if bytes.Equal(encoded, raw) {
		return board
	}

	if err := s.backend.Write(ctx, CollectionComments, encoded); err != nil {
		s.fail(CollectionComments, "write", err)
		return board
	}
	metrics.CommentsMigratedTotal.WithLabelValues(shape.String()).Inc()
	s.log.Info().
		Str("collection", CollectionComments).
		Str("shape", shape.String()).
		Msg("comments document normalized")
	return board
}

func (s *Store) SaveComments(ctx context.Context, b domain.Board) {
	encoded, err := Encode(b)
	if err != nil {
		s.fail(CollectionComments, "encode", err)
		return
	}
	if err := s.backend.Write(ctx, CollectionComments, encoded); err != nil {
		s.fail(CollectionComments, "write", err)
	}
}

// ── Appointments ──────────────────────────────────────────────────────────────

// appointmentRecord accepts the field names and naive timestamps written by
// earlier revisions of the booking form.
type appointmentRecord struct {
	ID        string `json:"id"`
	Patient   string `json:"patient"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Doctor    string `json:"doctor"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
	BookedAt  string `json:"booked_at"`
}

func (r appointmentRecord) toDomain() domain.Appointment {
	patient := r.Patient
	if patient == "" {
		patient = r.Name
	}
	created := r.CreatedAt
	if created == "" {
		created = r.BookedAt
	}
	return domain.Appointment{
		ID:        r.ID,
		Patient:   patient,
		Contact:   r.Contact,
		Provider:  r.Doctor,
		Date:      r.Date,
		Time:      r.Time,
		Reason:    r.Reason,
		CreatedAt: parseTimestamp(created, time.Time{}),
	}
}

func (s *Store) LoadAppointments(ctx context.Context) []domain.Appointment {
	raw, ok := s.read(ctx, CollectionAppointments)
	if !ok {
		return []domain.Appointment{}
	}

	var records []appointmentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.undecodable(ctx, CollectionAppointments, raw, err)
		return []domain.Appointment{}
	}

	out := make([]domain.Appointment, 0, len(records))
	for _, r := range records {
		out = append(out, r.toDomain())
	}
	return out
}

// AppendAppointment adds a to the ledger. Stored records are carried over as
// raw JSON so fields this revision does not know about survive. The ledger
// is left alone when it could not be read.
func (s *Store) AppendAppointment(ctx context.Context, a domain.Appointment) {
	records := []json.RawMessage{}
	raw, err := s.backend.Read(ctx, CollectionAppointments)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		s.fail(CollectionAppointments, "read", err)
		return
	case len(bytes.TrimSpace(raw)) > 0:
		if err := json.Unmarshal(raw, &records); err != nil {
			s.undecodable(ctx, CollectionAppointments, raw, err)
			records = []json.RawMessage{}
		}
	}

	record, err := json.Marshal(a)
	if err != nil {
		s.fail(CollectionAppointments, "encode", err)
		return
	}
	s.write(ctx, CollectionAppointments, append(records, record))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// read returns the document bytes, or false when the default should be used.
// Blank documents count as absent.
func (s *Store) read(ctx context.Context, name string) ([]byte, bool) {
	raw, err := s.backend.Read(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.fail(name, "read", err)
		}
		return nil, false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	return raw, true
}

func (s *Store) write(ctx context.Context, name string, v any) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		s.fail(name, "encode", err)
		return
	}
	data = append(data, '\n')
	if err := s.backend.Write(ctx, name, data); err != nil {
		s.fail(name, "write", err)
	}
}

// undecodable keeps a copy of a corrupt document so the next save does not
// destroy it.
func (s *Store) undecodable(ctx context.Context, name string, raw []byte, err error) {
	s.fail(name, "decode", err)
	s.quarantine(ctx, name, raw)
}

// quarantine copies raw aside under <name>.quarantine-<unix>. It reports
// whether the copy succeeded (or there was nothing to keep).
func (s *Store) quarantine(ctx context.Context, name string, raw []byte) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	target := QuarantineName(name, s.normalizer.now())
	if err := s.backend.Write(ctx, target, raw); err != nil {
		s.fail(name, "quarantine", err)
		return false
	}
	s.log.Warn().Str("collection", name).Str("quarantine", target).Msg("document quarantined")
	return true
}

// QuarantineName is the document name a corrupt collection is copied to.
func QuarantineName(name string, at time.Time) string {
	return fmt.Sprintf("%s.quarantine-%d", name, at.Unix())
}

func (s *Store) fail(name, op string, err error) {
	metrics.StoreFailuresTotal.WithLabelValues(name, op).Inc()
	s.log.Error().Err(err).Str("collection", name).Str("op", op).Msg("persistence failure")
}
