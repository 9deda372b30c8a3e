package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func staticSource(records []Record, err error) Source {
	return SourceFunc(func(ctx context.Context) ([]Record, error) {
		return records, err
	})
}

func TestStore_InitialSnapshot(t *testing.T) {
	store := NewStore(staticSource(nil, nil), FallbackPlaceholder)
	snap := store.Snapshot()
	if snap.Loaded() {
		t.Error("new store should not report a loaded snapshot")
	}
	if snap.Origin != OriginNone {
		t.Errorf("Origin = %v, want %v", snap.Origin, OriginNone)
	}
}

func TestStore_LoadReplacesWholesale(t *testing.T) {
	current := sampleRecords
	store := NewStore(SourceFunc(func(ctx context.Context) ([]Record, error) {
		return current, nil
	}), FallbackPlaceholder)

	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(store.Snapshot().Records); got != len(sampleRecords) {
		t.Fatalf("len(Records) = %d, want %d", got, len(sampleRecords))
	}

	current = sampleRecords[:1]
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if len(snap.Records) != 1 || snap.Records[0].IP != "10.0.0.5" {
		t.Errorf("second snapshot = %v, want only 10.0.0.5", ips(snap.Records))
	}
	if !snap.Live() {
		t.Errorf("Origin = %v, want live", snap.Origin)
	}
	if snap.Generation != 2 {
		t.Errorf("Generation = %d, want 2", snap.Generation)
	}
}

func TestStore_LoadCopiesSourceSlice(t *testing.T) {
	records := append([]Record(nil), sampleRecords...)
	store := NewStore(staticSource(records, nil), FallbackPlaceholder)
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	records[0].IP = "mutated"
	if got := store.Snapshot().Records[0].IP; got != "10.0.0.5" {
		t.Errorf("snapshot shares memory with the source slice, IP = %s", got)
	}
}

func TestStore_PlaceholderFallback(t *testing.T) {
	cause := errors.New("connection refused")
	store := NewStore(staticSource(nil, cause), FallbackPlaceholder)
	fixed := time.Unix(1700000000, 0)
	store.now = func() time.Time { return fixed }

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, placeholder policy should recover", err)
	}
	if snap.Origin != OriginPlaceholder {
		t.Errorf("Origin = %v, want placeholder", snap.Origin)
	}
	if !errors.Is(snap.Err, cause) {
		t.Errorf("snapshot Err = %v, want %v", snap.Err, cause)
	}
	if len(snap.Records) != 4 {
		t.Fatalf("placeholder records = %d, want 4", len(snap.Records))
	}
	for _, r := range snap.Records {
		seen, ok := r.LastSeen()
		if !ok || !seen.Equal(fixed) {
			t.Errorf("placeholder %s last seen = %v, want %v", r.IP, seen, fixed)
		}
	}

	stats := snap.Stats()
	want := Stats{Total: 4, Printers: 1, NAS: 1, Cameras: 1, Other: 1}
	if stats != want {
		t.Errorf("placeholder stats = %+v, want %+v", stats, want)
	}
}

func TestStore_ErrorPolicy(t *testing.T) {
	cause := errors.New("timeout")
	store := NewStore(staticSource(nil, cause), FallbackError)

	snap, err := store.Load(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("Load() error = %v, want %v", err, cause)
	}
	if snap.Origin != OriginFailed {
		t.Errorf("Origin = %v, want failed", snap.Origin)
	}
	if len(snap.Records) != 0 {
		t.Errorf("failed snapshot should carry no records, got %d", len(snap.Records))
	}
	if !snap.Loaded() {
		t.Error("failed snapshot still counts as loaded")
	}
}

func TestStore_InvalidRecordIsMalformed(t *testing.T) {
	bad := []Record{{IP: "10.0.0.1", MAC: "aa"}, {IP: "", MAC: "bb"}}
	store := NewStore(staticSource(bad, nil), FallbackError)

	_, err := store.Load(context.Background())
	var invalid *InvalidRecordError
	if !errors.As(err, &invalid) {
		t.Fatalf("Load() error = %v, want *InvalidRecordError", err)
	}
	if invalid.Index != 1 {
		t.Errorf("Index = %d, want 1", invalid.Index)
	}
}

func TestStore_LastStartedLoadWins(t *testing.T) {
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	store := NewStore(SourceFunc(func(ctx context.Context) ([]Record, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			// The first load blocks until the second has been applied.
			<-release
			return sampleRecords[:1], nil
		}
		return sampleRecords[1:3], nil
	}), FallbackPlaceholder)

	done := make(chan error, 1)
	go func() {
		_, err := store.Load(context.Background())
		done <- err
	}()

	// Wait for the first load to be in flight.
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("first Load() error = %v, want ErrSuperseded", err)
	}

	got := ips(store.Snapshot().Records)
	if len(got) != 2 || got[0] != "10.0.0.6" {
		t.Errorf("snapshot = %v, want the newer load [10.0.0.6 10.0.0.7]", got)
	}
}

func TestStore_SubscribersNotified(t *testing.T) {
	store := NewStore(staticSource(sampleRecords, nil), FallbackPlaceholder)

	var got []Stats
	unsubscribe := store.Subscribe(func(s Snapshot) {
		got = append(got, s.Stats())
	})

	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].Total != len(sampleRecords) {
		t.Fatalf("notifications = %+v, want one with total %d", got, len(sampleRecords))
	}

	unsubscribe()
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("notified after unsubscribe, got %d notifications", len(got))
	}
}

func TestParseFallbackPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FallbackPolicy
		wantErr bool
	}{
		{in: "", want: FallbackPlaceholder},
		{in: "placeholder", want: FallbackPlaceholder},
		{in: "demo", want: FallbackPlaceholder},
		{in: "ERROR", want: FallbackError},
		{in: "ignore", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFallbackPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFallbackPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFallbackPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
