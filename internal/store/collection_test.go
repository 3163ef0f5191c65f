package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ray/billdesk/internal/domain"
)

// fakeSource is an in-memory Source with controllable failures. When gate is
// set, List snapshots its result, signals started, then blocks until the
// gate closes; that pins down the ordering of background revalidations.
type fakeSource struct {
	mu        sync.Mutex
	items     []*domain.Builder
	listCalls int

	listErr   error
	addErr    error
	updateErr error
	deleteErr error

	gate    chan struct{}
	started chan struct{}
}

func (f *fakeSource) List(ctx context.Context) ([]*domain.Builder, error) {
	f.mu.Lock()
	f.listCalls++
	gate, started := f.gate, f.started
	err := f.listErr
	out := make([]*domain.Builder, len(f.items))
	for i, b := range f.items {
		cp := *b
		out[i] = &cp
	}
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeSource) Add(ctx context.Context, b *domain.Builder) (*domain.Builder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	cp := *b
	f.items = append(f.items, &cp)
	out := cp
	return &out, nil
}

func (f *fakeSource) Update(ctx context.Context, b *domain.Builder) (*domain.Builder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == b.ID {
			cp := *b
			f.items[i] = &cp
			out := cp
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func builderFixture(id, name string) *domain.Builder {
	return &domain.Builder{ID: id, CompanyName: name, Email: name + "@test.test"}
}

func newTestCollection(src *fakeSource) *Collection[*domain.Builder] {
	return NewCollection[*domain.Builder](
		src,
		func(b *domain.Builder) string { return b.ID },
		func(b *domain.Builder) *domain.Builder { cp := *b; return &cp },
	)
}

func TestList_ColdCacheFetchesRemote(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	got, err := col.List(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if src.listCalls != 1 {
		t.Errorf("expected one remote fetch, got %d", src.listCalls)
	}
}

func TestList_WarmCacheReturnsImmediatelyThenRevalidates(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	if _, err := col.List(ctx, false); err != nil { // warm up
		t.Fatalf("warm up: %v", err)
	}

	// New data appears remotely behind the cache's back.
	src.mu.Lock()
	src.items = append(src.items, builderFixture("b2", "BuildRight"))
	src.mu.Unlock()

	got, err := col.List(ctx, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("warm read must serve the cache, got %d items", len(got))
	}

	// Once the background revalidation lands the new data is visible.
	col.WaitBackground()
	if _, err := col.Get(ctx, "b2"); err != nil {
		t.Errorf("expected revalidated cache to contain b2: %v", err)
	}
}

func TestList_ForceBypassesCache(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	if _, err := col.List(ctx, false); err != nil {
		t.Fatalf("warm up: %v", err)
	}
	src.mu.Lock()
	src.items = append(src.items, builderFixture("b2", "BuildRight"))
	src.mu.Unlock()

	got, err := col.List(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("force list must await the remote, got %d items", len(got))
	}
}

func TestRevalidation_StaleResultDiscardedAfterWrite(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	if _, err := col.List(ctx, false); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	// Hold the background fetch open so its snapshot predates the write.
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	src.mu.Lock()
	src.gate, src.started = gate, started
	src.mu.Unlock()

	if _, err := col.List(ctx, false); err != nil {
		t.Fatalf("cached list: %v", err)
	}
	<-started // revalidation snapshot taken, still blocked

	src.mu.Lock()
	src.gate, src.started = nil, nil
	src.mu.Unlock()

	added, err := col.Add(ctx, builderFixture("b2", "BuildRight"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	close(gate)
	col.WaitBackground()

	// The stale snapshot predates b2; applying it would lose the write.
	if _, err := col.Get(ctx, added.ID); err != nil {
		t.Errorf("stale revalidation overwrote a newer write: %v", err)
	}
}

func TestRevalidation_FetchFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	if _, err := col.List(ctx, false); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	src.mu.Lock()
	src.listErr = errors.New("remote down")
	src.mu.Unlock()

	got, err := col.List(ctx, false)
	if err != nil {
		t.Fatalf("warm read must not surface a background failure: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected cached data, got %d items", len(got))
	}
	col.WaitBackground()

	if _, err := col.Get(ctx, "b1"); err != nil {
		t.Errorf("failed revalidation must leave the cache intact: %v", err)
	}
}

func TestAdd_FailureLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	if _, err := col.List(ctx, false); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	src.mu.Lock()
	src.addErr = errors.New("rejected")
	src.mu.Unlock()

	if _, err := col.Add(ctx, builderFixture("b2", "BuildRight")); err == nil {
		t.Fatal("expected add to fail")
	}
	if _, err := col.Get(ctx, "b2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("failed add must not appear in the cache: %v", err)
	}
}

func TestWrite_VisibleToSubsequentReads(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	if _, err := col.List(ctx, false); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	added, err := col.Add(ctx, builderFixture("b2", "BuildRight"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := col.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("expected the write to be readable at once: %v", err)
	}
	if got.CompanyName != "BuildRight" {
		t.Errorf("unexpected cached entity: %+v", got)
	}

	updated := *got
	updated.CompanyName = "BuildRight LLC"
	if _, err := col.Update(ctx, &updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = col.Get(ctx, added.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.CompanyName != "BuildRight LLC" {
		t.Errorf("update not visible: %+v", got)
	}

	if err := col.Delete(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := col.Get(ctx, added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete not visible: %v", err)
	}
}

func TestReads_ReturnClones(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []*domain.Builder{builderFixture("b1", "ACME")}}
	col := newTestCollection(src)

	got, err := col.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got[0].CompanyName = "Mutated"

	again, err := col.Get(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.CompanyName != "ACME" {
		t.Errorf("caller mutation leaked into the cache: %q", again.CompanyName)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	col := newTestCollection(src)

	if _, err := col.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
