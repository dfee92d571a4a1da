package graph

import (
	"context"
	"errors"
	"testing"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
)

type fetchFunc func(ctx context.Context) ([]byte, error)

func (f fetchFunc) Fetch(ctx context.Context) ([]byte, error) { return f(ctx) }

func bytesFetcher(data string) Fetcher {
	return fetchFunc(func(context.Context) ([]byte, error) { return []byte(data), nil })
}

func TestStoreStartsUnloaded(t *testing.T) {
	s := NewStore()
	if s.Loaded() {
		t.Fatal("new store should be unloaded")
	}
	if g, ok := s.Graph(); ok || g != nil {
		t.Error("Graph() should report unloaded")
	}
}

func TestStoreLoad(t *testing.T) {
	s := NewStore()
	g, err := s.Load(context.Background(), bytesFetcher(sampleDataset), DefaultColors())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := s.Graph()
	if !ok || got != g {
		t.Fatal("store should publish the loaded graph")
	}

	_, err = s.Load(context.Background(), bytesFetcher(sampleDataset), DefaultColors())
	if !kgerrors.Is(err, kgerrors.ErrCodeAlreadyLoaded) {
		t.Errorf("second load err = %v, want ALREADY_LOADED", err)
	}
	if again, _ := s.Graph(); again != g {
		t.Error("second load must not replace the graph")
	}
}

func TestStoreLoadFailures(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  Fetcher
		wantCode kgerrors.Code
	}{
		{
			name: "Transport",
			fetcher: fetchFunc(func(context.Context) ([]byte, error) {
				return nil, errors.New("connection refused")
			}),
			wantCode: kgerrors.ErrCodeTransport,
		},
		{
			name: "TransportAlreadyCoded",
			fetcher: fetchFunc(func(context.Context) ([]byte, error) {
				return nil, kgerrors.New(kgerrors.ErrCodeMalformedPayload, "bad rows")
			}),
			wantCode: kgerrors.ErrCodeMalformedPayload,
		},
		{
			name:     "Malformed",
			fetcher:  bytesFetcher(`{"nodes": []}`),
			wantCode: kgerrors.ErrCodeMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			g, err := s.Load(context.Background(), tt.fetcher, DefaultColors())
			if err == nil {
				t.Fatal("expected error")
			}
			if !kgerrors.IsLoadError(err) {
				t.Errorf("err = %v, want a load error", err)
			}
			if got := kgerrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
			if g != nil || s.Loaded() {
				t.Error("failed load must leave the store unloaded")
			}
		})
	}
}

func TestStoreLoadAfterFailure(t *testing.T) {
	s := NewStore()
	if _, err := s.Load(context.Background(), bytesFetcher(`nope`), DefaultColors()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := s.Load(context.Background(), bytesFetcher(sampleDataset), DefaultColors()); err != nil {
		t.Fatalf("retry by caller should succeed: %v", err)
	}
	if !s.Loaded() {
		t.Error("store should be loaded")
	}
}

func TestNewLoadedStore(t *testing.T) {
	g := New(nil, nil, DefaultColors())
	s := NewLoadedStore(g)
	if got, ok := s.Graph(); !ok || got != g {
		t.Error("NewLoadedStore should publish g")
	}
}
