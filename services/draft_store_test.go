package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// exerciseDraftStore runs the behaviour every DraftStore must share.
func exerciseDraftStore(t *testing.T, store DraftStore) {
	ctx := context.Background()

	d, err := store.Create(ctx, DraftMaterial, "rfq1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == "" || d.Kind != DraftMaterial || d.RFQID != "rfq1" {
		t.Fatalf("unexpected draft %+v", d)
	}

	updated, err := store.Update(ctx, d.ID, func(d *QuoteDraft) error {
		d.AddVendorRow(VendorQuoteRow{MaterialDesc: "Kit", LeadTime: "1w", Delivery: "Pune", Rate: "9"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Vendors) != 1 {
		t.Fatalf("expected 1 vendor after update, got %d", len(updated.Vendors))
	}

	failing := errors.New("boom")
	if _, err := store.Update(ctx, d.ID, func(d *QuoteDraft) error {
		d.Vendors = nil
		return failing
	}); !errors.Is(err, failing) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	got, err := store.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Vendors) != 1 {
		t.Errorf("failed update leaked into the store: %d vendors", len(got.Vendors))
	}

	if _, err := store.Get(ctx, "unknown"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
	if _, err := store.Update(ctx, "unknown", func(*QuoteDraft) error { return nil }); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound on update, got %v", err)
	}

	if err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, d.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected deleted draft to be gone, got %v", err)
	}
}

func TestMemoryDraftStore(t *testing.T) {
	exerciseDraftStore(t, NewMemoryDraftStore(time.Hour))
}

func TestMemoryDraftStore_ClonesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore(time.Hour)
	d, _ := store.Create(ctx, DraftMaterial, "rfq1")

	d.Vendors = append(d.Vendors, VendorQuoteRow{MaterialDesc: "sneaky"})
	got, _ := store.Get(ctx, d.ID)
	if len(got.Vendors) != 0 {
		t.Error("mutating a returned draft changed the store")
	}
}

func TestMemoryDraftStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryDraftStore(30 * time.Minute)
	store.now = func() time.Time { return now }

	d, _ := store.Create(ctx, DraftLogistic, "rfq1")

	now = now.Add(20 * time.Minute)
	if _, err := store.Update(ctx, d.ID, func(*QuoteDraft) error { return nil }); err != nil {
		t.Fatalf("expected draft alive after 20m: %v", err)
	}

	// Touching the draft pushed expiry to 50m after creation.
	now = now.Add(25 * time.Minute)
	if _, err := store.Get(ctx, d.ID); err != nil {
		t.Fatalf("expected draft alive after sliding expiry: %v", err)
	}

	now = now.Add(31 * time.Minute)
	if _, err := store.Get(ctx, d.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected expired draft, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected expired draft swept, %d left", store.Len())
	}
}

// exerciseConcurrentUpdates checks that racing updates on one draft all land.
func exerciseConcurrentUpdates(t *testing.T, store DraftStore) {
	ctx := context.Background()
	d, err := store.Create(ctx, DraftMaterial, "rfq1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, d.ID, func(d *QuoteDraft) error {
				d.AddFile(&UploadedFile{Name: "f.txt"})
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Update: %v", err)
		}
	}

	got, _ := store.Get(ctx, d.ID)
	if len(got.Files) != 20 {
		t.Errorf("expected 20 files, got %d", len(got.Files))
	}
}

func TestMemoryDraftStore_ConcurrentUpdates(t *testing.T) {
	exerciseConcurrentUpdates(t, NewMemoryDraftStore(time.Hour))
}

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisDraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisDraftStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisDraftStore(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Minute)
	exerciseDraftStore(t, store)
}

func TestRedisDraftStore_ConcurrentUpdates(t *testing.T) {
	store, _ := newMiniredisStore(t, time.Minute)
	exerciseConcurrentUpdates(t, store)
}

func TestRedisDraftStore_KeyAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t, 30*time.Minute)

	d, err := store.Create(ctx, DraftLogistic, "rfq1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	key := "quote_draft:" + d.ID
	if !mr.Exists(key) {
		t.Fatalf("expected key %s", key)
	}
	if ttl := mr.TTL(key); ttl != 30*time.Minute {
		t.Errorf("TTL = %v, want 30m", ttl)
	}

	mr.FastForward(20 * time.Minute)
	if _, err := store.Update(ctx, d.ID, func(*QuoteDraft) error { return nil }); err != nil {
		t.Fatalf("expected draft alive after 20m: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 30*time.Minute {
		t.Errorf("TTL after update = %v, want it reset to 30m", ttl)
	}

	mr.FastForward(25 * time.Minute)
	if _, err := store.Get(ctx, d.ID); err != nil {
		t.Fatalf("expected draft alive after sliding expiry: %v", err)
	}

	mr.FastForward(6 * time.Minute)
	if _, err := store.Get(ctx, d.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected expired draft, got %v", err)
	}
}

func TestRedisDraftStore_UpdateRetriesAfterConflict(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t, time.Minute)
	d, _ := store.Create(ctx, DraftMaterial, "rfq1")

	other := *d
	other.Files = []UploadedFile{{Name: "other.txt"}}
	otherJSON, err := json.Marshal(other)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	calls := 0
	got, err := store.Update(ctx, d.ID, func(d *QuoteDraft) error {
		calls++
		if calls == 1 {
			// Another instance writes the draft between our read and commit.
			if err := mr.Set("quote_draft:"+d.ID, string(otherJSON)); err != nil {
				t.Fatalf("concurrent write: %v", err)
			}
		}
		d.AddFile(&UploadedFile{Name: "mine.txt"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected one retry, fn ran %d times", calls)
	}
	if len(got.Files) != 2 || got.Files[0].Name != "other.txt" || got.Files[1].Name != "mine.txt" {
		t.Errorf("expected the concurrent write kept, got %+v", got.Files)
	}
}

func TestRedisDraftStore_CorruptValue(t *testing.T) {
	store, mr := newMiniredisStore(t, time.Minute)
	if err := mr.Set("quote_draft:bad", "not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(context.Background(), "bad"); err == nil || errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected a decode error, got %v", err)
	}
}

func TestRedisDraftStore_Unreachable(t *testing.T) {
	store := NewRedisDraftStore("127.0.0.1:1", time.Minute)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.Ping(ctx); err == nil {
		t.Error("expected ping to fail for a closed port")
	}
}
