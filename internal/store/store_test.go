package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/isdelr/emote-panel-be/internal/database"
)

type item struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

func TestDecodeCollection(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantIDs []string
		wantErr bool
	}{
		{name: "array", raw: `[{"id":"a"},{"id":"b"}]`, wantIDs: []string{"a", "b"}},
		{name: "null", raw: `null`, wantIDs: []string{}},
		{name: "empty input", raw: ``, wantIDs: []string{}},
		{name: "empty array", raw: ` [] `, wantIDs: []string{}},
		{name: "sparse numeric keys", raw: `{"10":{"id":"c"},"2":{"id":"b"},"0":{"id":"a"}}`, wantIDs: []string{"a", "b", "c"}},
		{name: "mixed keys", raw: `{"z":{"id":"z"},"1":{"id":"one"},"a":{"id":"a"}}`, wantIDs: []string{"one", "a", "z"}},
		{name: "array with null holes", raw: `[{"id":"a"},null,{"id":"c"}]`, wantIDs: []string{"a", "c"}},
		{name: "object with null value", raw: `{"0":{"id":"a"},"1":null}`, wantIDs: []string{"a"}},
		{name: "only nulls", raw: `[null,null]`, wantIDs: []string{}},
		{name: "scalar", raw: `42`, wantErr: true},
		{name: "malformed", raw: `[{"id":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCollection[item]([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeCollection: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d items, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("item %d: expected %q, got %q", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, KeySettings); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := SetJSON(ctx, m, KeyServers, []item{{ID: "1"}}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	got, err := GetCollection[item](ctx, m, KeyServers)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected collection: %#v", got)
	}

	m.SetErr = errors.New("offline")
	if err := m.Set(ctx, KeyServers, []byte("[]")); err == nil {
		t.Fatal("expected injected error")
	}
	if n := m.Writes(KeyServers); n != 2 {
		t.Errorf("expected 2 write attempts, got %d", n)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	s := NewSQLiteStore(db)
	if _, err := s.Get(ctx, KeyEmotes); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, KeyEmotes, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Overwrite replaces the whole record.
	if err := s.Set(ctx, KeyEmotes, []byte(`{"0":{"id":"x"},"1":{"id":"y"}}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := GetCollection[item](ctx, s, KeyEmotes)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if len(got) != 2 || got[0].ID != "x" || got[1].ID != "y" {
		t.Fatalf("unexpected collection: %#v", got)
	}
}
