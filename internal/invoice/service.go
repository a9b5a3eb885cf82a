package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/identity"
)

// Repository persists the draft and the saved collection of one document
// kind, keyed by namespace. Collections are always written whole.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	LoadDraft(ctx context.Context, namespace string) (*Record, error)
	SaveDraft(ctx context.Context, namespace string, draft *Record) error
	LoadRecords(ctx context.Context, namespace string) ([]*Record, error)
	SaveRecords(ctx context.Context, namespace string, records []*Record) error
}

type Service struct {
	repo     Repository
	kind     Kind
	settings Settings
}

func NewService(repo Repository, kind Kind, settings Settings) *Service {
	return &Service{
		repo:     repo,
		kind:     kind,
		settings: settings,
	}
}

func (s *Service) Kind() Kind { return s.kind }

func (s *Service) Settings() Settings { return s.settings }

// Load reads the draft and saved collection for id. A missing or unreadable
// draft is replaced by a blank one carrying the next number.
func (s *Service) Load(ctx context.Context, id identity.Identity) (*Workspace, error) {
	ns := id.Namespace()

	saved, err := s.repo.LoadRecords(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	if saved == nil {
		saved = []*Record{}
	}

	draft, err := s.repo.LoadDraft(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("loading %s draft: %w", s.kind.Name, err)
	}

	if draft == nil {
		now := s.settings.now()
		draft = NewBlank(NextNumber(s.kind.Prefix, saved, now), now, s.settings)
	}

	return &Workspace{Draft: draft, Saved: saved}, nil
}

// SaveDraft overwrites the stored draft. It does nothing without an identity.
func (s *Service) SaveDraft(ctx context.Context, id identity.Identity, draft *Record) error {
	if !id.Present() {
		return nil
	}

	if err := draft.Validate(); err != nil {
		return err
	}

	if err := s.repo.SaveDraft(ctx, id.Namespace(), draft); err != nil {
		return fmt.Errorf("saving %s draft: %w", s.kind.Name, err)
	}

	return nil
}

// NewDraft starts a new record that keeps the business identity of prev. When
// prev is nil the stored draft is used. The result is not persisted.
func (s *Service) NewDraft(ctx context.Context, id identity.Identity, prev *Record) (*Record, error) {
	ns := id.Namespace()

	if prev == nil {
		stored, err := s.repo.LoadDraft(ctx, ns)
		if err != nil {
			return nil, fmt.Errorf("loading %s draft: %w", s.kind.Name, err)
		}

		prev = stored
	}

	saved, err := s.repo.LoadRecords(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	now := s.settings.now()

	return NewFromPrevious(prev, NextNumber(s.kind.Prefix, saved, now), now, s.settings), nil
}

// SaveRecord upserts rec into the saved collection by ID, assigning an ID and
// CreatedAt when missing. It does nothing without an identity.
func (s *Service) SaveRecord(ctx context.Context, id identity.Identity, rec *Record) (*Record, error) {
	if !id.Present() {
		return rec, nil
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.settings.Discount.Apply(Total(rec)); err != nil {
		return nil, err
	}

	ns := id.Namespace()

	records, err := s.repo.LoadRecords(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if rec.CreatedAt == nil {
		now := s.settings.now().UTC().Truncate(time.Millisecond)
		rec.CreatedAt = &now
	}

	stored := rec.Clone()
	replaced := false

	for i, r := range records {
		if r.ID == rec.ID {
			records[i] = stored
			replaced = true

			break
		}
	}

	if !replaced {
		records = append(records, stored)
	}

	if err := s.repo.SaveRecords(ctx, ns, records); err != nil {
		return nil, fmt.Errorf("saving %s records: %w", s.kind.Name, err)
	}

	return rec, nil
}

// DeleteRecord removes the record with recordID. Unknown IDs are ignored.
func (s *Service) DeleteRecord(ctx context.Context, id identity.Identity, recordID string) error {
	if !id.Present() {
		return nil
	}

	ns := id.Namespace()

	records, err := s.repo.LoadRecords(ctx, ns)
	if err != nil {
		return fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	kept := make([]*Record, 0, len(records))

	for _, r := range records {
		if r.ID != recordID {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(records) {
		return nil
	}

	if err := s.repo.SaveRecords(ctx, ns, kept); err != nil {
		return fmt.Errorf("saving %s records: %w", s.kind.Name, err)
	}

	return nil
}

// ToggleStatus flips paid and unpaid on the saved record with recordID.
// Unknown IDs are ignored.
func (s *Service) ToggleStatus(ctx context.Context, id identity.Identity, recordID string) error {
	if !id.Present() {
		return nil
	}

	ns := id.Namespace()

	records, err := s.repo.LoadRecords(ctx, ns)
	if err != nil {
		return fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	found := false

	for _, r := range records {
		if r.ID == recordID {
			r.ToggleStatus()
			found = true

			break
		}
	}

	if !found {
		return nil
	}

	if err := s.repo.SaveRecords(ctx, ns, records); err != nil {
		return fmt.Errorf("saving %s records: %w", s.kind.Name, err)
	}

	return nil
}

// GenerateNumber returns the next number for the namespace's saved records.
func (s *Service) GenerateNumber(ctx context.Context, id identity.Identity) (string, error) {
	records, err := s.repo.LoadRecords(ctx, id.Namespace())
	if err != nil {
		return "", fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	return NextNumber(s.kind.Prefix, records, s.settings.now()), nil
}

// Get returns the saved record with recordID.
func (s *Service) Get(ctx context.Context, id identity.Identity, recordID string) (*Record, error) {
	records, err := s.repo.LoadRecords(ctx, id.Namespace())
	if err != nil {
		return nil, fmt.Errorf("loading %s records: %w", s.kind.Name, err)
	}

	for _, r := range records {
		if r.ID == recordID {
			return r, nil
		}
	}

	return nil, ErrNotFound
}

// Payable applies the configured discount policy to the record's total.
func (s *Service) Payable(r *Record) (Totals, error) {
	totals := Compute(r)

	payable, err := s.settings.Discount.Apply(totals.Total)
	totals.Total = payable

	return totals, err
}
