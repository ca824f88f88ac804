package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDraftTTL is how long an untouched quotation page keeps its lists.
const DefaultDraftTTL = 2 * time.Hour

// ErrDraftNotFound is returned for unknown or expired draft ids.
var ErrDraftNotFound = errors.New("draft not found")

// DraftStore holds quotation drafts for the lifetime of a page view.
// Update applies fn atomically with respect to other calls for the same id;
// if fn returns an error the stored draft is left unchanged.
type DraftStore interface {
	Create(ctx context.Context, kind DraftKind, rfqID string) (*QuoteDraft, error)
	Get(ctx context.Context, id string) (*QuoteDraft, error)
	Update(ctx context.Context, id string, fn func(*QuoteDraft) error) (*QuoteDraft, error)
	Delete(ctx context.Context, id string) error
}

func newDraft(kind DraftKind, rfqID string, now time.Time, ttl time.Duration) *QuoteDraft {
	return &QuoteDraft{
		ID:        uuid.NewString(),
		Kind:      kind,
		RFQID:     rfqID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// MemoryDraftStore keeps drafts in process memory. Expired drafts are
// dropped lazily whenever the store is touched.
type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[string]*QuoteDraft
}

func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &MemoryDraftStore{
		ttl:    ttl,
		now:    time.Now,
		drafts: make(map[string]*QuoteDraft),
	}
}

func (s *MemoryDraftStore) Create(_ context.Context, kind DraftKind, rfqID string) (*QuoteDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	d := newDraft(kind, rfqID, s.now(), s.ttl)
	s.drafts[d.ID] = d
	return cloneDraft(d), nil
}

func (s *MemoryDraftStore) Get(_ context.Context, id string) (*QuoteDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return cloneDraft(d), nil
}

func (s *MemoryDraftStore) Update(_ context.Context, id string, fn func(*QuoteDraft) error) (*QuoteDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	working := cloneDraft(d)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.ExpiresAt = s.now().Add(s.ttl)
	s.drafts[id] = working
	return cloneDraft(working), nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// Len returns the number of live drafts.
func (s *MemoryDraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.drafts)
}

func (s *MemoryDraftStore) sweepLocked() {
	now := s.now()
	for id, d := range s.drafts {
		if d.Expired(now) {
			delete(s.drafts, id)
		}
	}
}

// cloneDraft copies the list headers so callers cannot mutate stored state.
// File contents are shared; they are never modified in place.
func cloneDraft(d *QuoteDraft) *QuoteDraft {
	c := *d
	c.Files = append([]UploadedFile(nil), d.Files...)
	c.Vendors = append([]VendorQuoteRow(nil), d.Vendors...)
	return &c
}
