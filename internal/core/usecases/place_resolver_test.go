package usecases_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

func TestPlaceResolver_ResolveCachesResult(t *testing.T) {
	var calls int32
	geocoder := &stubGeocoder{fn: func(ctx context.Context, lat, lon float64) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "Mombasa, Mombasa County", nil
	}}
	r := usecases.NewPlaceResolver(geocoder)
	p := domain.GeoPoint{Lat: -4.0435, Lon: 39.6682}

	if got := r.Resolve(context.Background(), p); got != "Mombasa, Mombasa County" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := r.Resolve(context.Background(), p); got != "Mombasa, Mombasa County" {
		t.Fatalf("unexpected label on second resolve %q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 geocoder call, got %d", n)
	}
}

func TestPlaceResolver_ConcurrentResolvesShareOneCall(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	geocoder := &stubGeocoder{fn: func(ctx context.Context, lat, lon float64) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release // hold the lookup in flight
		return "Kisumu, Kisumu County", nil
	}}
	r := usecases.NewPlaceResolver(geocoder)
	p := domain.GeoPoint{Lat: -0.0917, Lon: 34.768}

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), p)
		}(i)
	}

	// Let both callers reach the pending entry before the lookup returns.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected exactly 1 outbound call for concurrent resolves, got %d", n)
	}
	for i, got := range results {
		if got != "Kisumu, Kisumu County" {
			t.Errorf("caller %d got %q", i, got)
		}
	}
}

func TestPlaceResolver_FailureIsCachedAsUnavailable(t *testing.T) {
	var calls int32
	geocoder := &stubGeocoder{fn: func(ctx context.Context, lat, lon float64) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("nominatim: 503")
	}}
	r := usecases.NewPlaceResolver(geocoder)
	p := domain.GeoPoint{Lat: 1.5, Lon: 2.5}

	if got := r.Resolve(context.Background(), p); got != usecases.PlaceUnavailable {
		t.Fatalf("expected %q, got %q", usecases.PlaceUnavailable, got)
	}
	// The failure is cached; no automatic retry.
	if got := r.Resolve(context.Background(), p); got != usecases.PlaceUnavailable {
		t.Fatalf("expected cached %q, got %q", usecases.PlaceUnavailable, got)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("failed lookup was retried: %d calls", n)
	}
}

func TestPlaceResolver_LookupDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	geocoder := &stubGeocoder{fn: func(ctx context.Context, lat, lon float64) (string, error) {
		<-release
		return "Nakuru, Nakuru County", nil
	}}
	r := usecases.NewPlaceResolver(geocoder)
	p := domain.GeoPoint{Lat: -0.3031, Lon: 36.08}

	if got := r.Lookup(p); got != usecases.PlaceLoading {
		t.Fatalf("expected loading placeholder, got %q", got)
	}
	close(release)

	// The background fetch settles; Lookup now serves the cached label.
	deadline := time.Now().Add(time.Second)
	for {
		if got := r.Lookup(p); got == "Nakuru, Nakuru County" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("lookup never settled on the resolved label")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPlaceResolver_ExactPairKeying(t *testing.T) {
	var calls int32
	geocoder := &stubGeocoder{fn: func(ctx context.Context, lat, lon float64) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "Somewhere", nil
	}}
	r := usecases.NewPlaceResolver(geocoder)

	// Nearly identical coordinates are distinct cache entries: only a
	// byte-identical pair is a hit.
	r.Resolve(context.Background(), domain.GeoPoint{Lat: -1.29210, Lon: 36.8219})
	r.Resolve(context.Background(), domain.GeoPoint{Lat: -1.2921001, Lon: 36.8219})

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 calls for distinct float pairs, got %d", n)
	}
	if r.Size() != 2 {
		t.Errorf("expected 2 cache entries, got %d", r.Size())
	}
}
