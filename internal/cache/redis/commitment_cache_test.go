package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/commt/commitments/internal/domain"
	"github.com/shopspring/decimal"
)

type fakeKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func (f *fakeKV) get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, errMiss
	}
	return v, nil
}

func (f *fakeKV) set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = val
	f.lastTTL = ttl
	return nil
}

type countingSource struct {
	calls int
	c     *domain.Commitment
}

func (s *countingSource) GetBySlug(_ context.Context, slug string) (*domain.Commitment, error) {
	s.calls++
	if s.c == nil || s.c.Slug != slug {
		return nil, domain.ErrCommitmentNotFound
	}
	return s.c, nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func sample() *domain.Commitment {
	return &domain.Commitment{
		Slug: "1", ID: "CMT-ABC123", Type: domain.TypeBalanced,
		Amount: decimal.NewFromInt(100000), CurrentValue: decimal.NewFromInt(102000),
		ComplianceData: []domain.ComplianceSample{{Date: "Jan 15", ComplianceScore: 100}},
	}
}

func TestCommitmentCache_ReadThrough(t *testing.T) {
	store := &fakeKV{data: map[string][]byte{}}
	src := &countingSource{c: sample()}
	cache := newCommitmentCache(store, src, time.Minute, quietLogger())

	for i := 0; i < 3; i++ {
		c, err := cache.GetBySlug(context.Background(), "1")
		if err != nil {
			t.Fatalf("GetBySlug: %v", err)
		}
		if c.ID != "CMT-ABC123" || !c.Amount.Equal(decimal.NewFromInt(100000)) || len(c.ComplianceData) != 1 {
			t.Errorf("round-tripped commitment differs: %+v", c)
		}
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
	if store.lastTTL != time.Minute {
		t.Errorf("ttl = %v", store.lastTTL)
	}
	if _, ok := store.data["commitment:1"]; !ok {
		t.Error("expected key commitment:1 to be written")
	}
}

func TestCommitmentCache_NotFoundIsNotCached(t *testing.T) {
	store := &fakeKV{data: map[string][]byte{}}
	src := &countingSource{c: sample()}
	cache := newCommitmentCache(store, src, time.Minute, quietLogger())

	for i := 0; i < 2; i++ {
		if _, err := cache.GetBySlug(context.Background(), "9"); !errors.Is(err, domain.ErrCommitmentNotFound) {
			t.Fatalf("GetBySlug(9) = %v, want ErrCommitmentNotFound", err)
		}
	}
	if src.calls != 2 || len(store.data) != 0 {
		t.Errorf("calls=%d cached=%d; misses must not be cached", src.calls, len(store.data))
	}
}

func TestCommitmentCache_RedisDownFallsBackToSource(t *testing.T) {
	store := &fakeKV{data: map[string][]byte{}, getErr: errors.New("connection refused"), setErr: errors.New("connection refused")}
	src := &countingSource{c: sample()}
	cache := newCommitmentCache(store, src, time.Minute, quietLogger())

	c, err := cache.GetBySlug(context.Background(), "1")
	if err != nil || c.ID != "CMT-ABC123" {
		t.Fatalf("GetBySlug with redis down = %v, %v", c, err)
	}
}

func TestCommitmentCache_CorruptEntryIsReloaded(t *testing.T) {
	store := &fakeKV{data: map[string][]byte{"commitment:1": []byte("{not json")}}
	src := &countingSource{c: sample()}
	cache := newCommitmentCache(store, src, time.Minute, quietLogger())

	if _, err := cache.GetBySlug(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}
}
