package storage

import (
	"os"
	"testing"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := OpenSQLite(f.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_GetMissing(t *testing.T) {
	s := testSQLite(t)
	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

func TestSQLite_SetGetRoundtrip(t *testing.T) {
	s := testSQLite(t)
	if err := s.Set(KeyNotes, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(KeyNotes)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[{"id":"1"}]` {
		t.Errorf("value = %q", v)
	}
}

func TestSQLite_SetOverwrites(t *testing.T) {
	s := testSQLite(t)
	_ = s.Set("k", []byte("old"))
	_ = s.Set("k", []byte("new"))
	v, _, _ := s.Get("k")
	if string(v) != "new" {
		t.Errorf("value = %q, want new", v)
	}
}

func TestMemory_Roundtrip(t *testing.T) {
	m := NewMemory()
	if err := m.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, _ := m.Get("k")
	if !ok || string(v) != "v" {
		t.Errorf("Get = %q, %v", v, ok)
	}
}

func TestMemory_FailSets(t *testing.T) {
	m := NewMemory()
	m.FailSets = true
	if err := m.Set("k", []byte("v")); err == nil {
		t.Error("expected error with FailSets")
	}
	if _, ok, _ := m.Get("k"); ok {
		t.Error("failed set should not store value")
	}
}
