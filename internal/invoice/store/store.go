package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/keyspace"
)

// Store implements invoice.Repository on top of a KeySpace. Each namespace
// holds two keys per kind: the draft and the saved collection.
type Store struct {
	kv   keyspace.KeySpace
	kind invoice.Kind
}

func New(kv keyspace.KeySpace, kind invoice.Kind) *Store {
	return &Store{kv: kv, kind: kind}
}

func (s *Store) draftKey(namespace string) string { return namespace + s.kind.DraftKey }

func (s *Store) savedKey(namespace string) string { return namespace + s.kind.SavedKey }

// LoadDraft returns nil when no readable draft is stored.
func (s *Store) LoadDraft(ctx context.Context, namespace string) (*invoice.Record, error) {
	key := s.draftKey(namespace)

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	if !ok || raw == "" {
		return nil, nil
	}

	var stored *recordJSON
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.WarnContext(ctx, "discarding unreadable draft", "key", key, "error", err)
		return nil, nil
	}

	if stored == nil {
		return nil, nil
	}

	return stored.toRecord(), nil
}

func (s *Store) SaveDraft(ctx context.Context, namespace string, draft *invoice.Record) error {
	data, err := json.Marshal(toJSON(draft))
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	if err := s.kv.Set(ctx, s.draftKey(namespace), string(data)); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}

	return nil
}

// LoadRecords returns the saved collection in stored order. An unreadable
// collection reads as empty; entries without an id are dropped.
func (s *Store) LoadRecords(ctx context.Context, namespace string) ([]*invoice.Record, error) {
	key := s.savedKey(namespace)

	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	if !ok || raw == "" {
		return []*invoice.Record{}, nil
	}

	var stored []*recordJSON
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.WarnContext(ctx, "discarding unreadable records", "key", key, "error", err)
		return []*invoice.Record{}, nil
	}

	records := make([]*invoice.Record, 0, len(stored))

	for _, r := range stored {
		if r == nil || r.ID == "" {
			slog.WarnContext(ctx, "skipping stored record without id", "key", key)
			continue
		}

		records = append(records, r.toRecord())
	}

	return records, nil
}

func (s *Store) SaveRecords(ctx context.Context, namespace string, records []*invoice.Record) error {
	stored := make([]recordJSON, len(records))
	for i, r := range records {
		stored[i] = toJSON(r)
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	if err := s.kv.Set(ctx, s.savedKey(namespace), string(data)); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	return nil
}
