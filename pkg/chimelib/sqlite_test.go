package chimelib

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	st := NewSQLiteStorage(filepath.Join(t.TempDir(), "alerts.db"), nil)
	if st.Open() {
		t.Fatal("Open must fail before the database exists")
	}
	if !st.CreateDatabase() {
		t.Fatal("CreateDatabase failed")
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteOpenAfterCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alerts.db")

	st := NewSQLiteStorage(path, nil)
	if st.Open() {
		t.Fatal("Open must fail for a missing file")
	}
	if !st.CreateDatabase() {
		t.Fatal("CreateDatabase failed")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	st2 := NewSQLiteStorage(path, nil)
	if !st2.Open() {
		t.Fatal("Open must succeed after the database was created")
	}
	st2.Close()
}

func TestSQLiteStoreAndLoad(t *testing.T) {
	st := newTestDB(t)

	a := mustAlert(t, "tok-1", "alarm", time.Unix(5000, 0))
	if !st.Store(a) {
		t.Fatal("Store failed")
	}

	alerts, ok := st.Load()
	if !ok {
		t.Fatal("Load failed")
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	got := alerts[0]
	if got.Token() != "tok-1" || got.TypeName() != "alarm" {
		t.Fatalf("round-trip mismatch: %s %s", got.Token(), got.TypeName())
	}
	if got.ScheduledTimeUnix() != 5000 {
		t.Fatalf("expected unix 5000, got %d", got.ScheduledTimeUnix())
	}
}

func TestSQLiteStoreDuplicateFails(t *testing.T) {
	st := newTestDB(t)

	a := mustAlert(t, "dup", "alarm", time.Unix(5000, 0))
	if !st.Store(a) {
		t.Fatal("first Store failed")
	}
	if st.Store(a) {
		t.Fatal("Store must fail for an already persisted token")
	}
}

func TestSQLiteModify(t *testing.T) {
	st := newTestDB(t)

	a := mustAlert(t, "tok", "alarm", time.Unix(5000, 0))
	if !st.Store(a) {
		t.Fatal("Store failed")
	}
	if !a.UpdateScheduledTime(time.Unix(6000, 0).UTC().Format(time.RFC3339)) {
		t.Fatal("UpdateScheduledTime failed")
	}
	if !st.Modify(a) {
		t.Fatal("Modify failed")
	}

	alerts, ok := st.Load()
	if !ok || len(alerts) != 1 {
		t.Fatal("Load after modify failed")
	}
	if alerts[0].ScheduledTimeUnix() != 6000 {
		t.Fatalf("expected modified time 6000, got %d", alerts[0].ScheduledTimeUnix())
	}
}

func TestSQLiteModifyAbsentFails(t *testing.T) {
	st := newTestDB(t)
	a := mustAlert(t, "ghost", "alarm", time.Unix(5000, 0))
	if st.Modify(a) {
		t.Fatal("Modify must fail for an absent token")
	}
}

func TestSQLiteErase(t *testing.T) {
	st := newTestDB(t)
	a := mustAlert(t, "tok", "alarm", time.Unix(5000, 0))
	if !st.Store(a) {
		t.Fatal("Store failed")
	}
	if !st.Erase(a) {
		t.Fatal("Erase failed")
	}
	alerts, ok := st.Load()
	if !ok || len(alerts) != 0 {
		t.Fatalf("expected empty table after erase, got %d", len(alerts))
	}
}

func TestSQLiteBulkErase(t *testing.T) {
	st := newTestDB(t)
	var doomed []*Alert
	for _, token := range []string{"a", "b", "c"} {
		al := mustAlert(t, token, "timer", time.Unix(5000, 0))
		if !st.Store(al) {
			t.Fatalf("Store %s failed", token)
		}
		if token != "c" {
			doomed = append(doomed, al)
		}
	}

	if !st.BulkErase(doomed) {
		t.Fatal("BulkErase failed")
	}
	alerts, ok := st.Load()
	if !ok || len(alerts) != 1 || alerts[0].Token() != "c" {
		t.Fatalf("expected only c to survive, got %d alerts", len(alerts))
	}
}

func TestSQLiteClearDatabase(t *testing.T) {
	st := newTestDB(t)
	for _, token := range []string{"a", "b"} {
		if !st.Store(mustAlert(t, token, "timer", time.Unix(5000, 0))) {
			t.Fatalf("Store %s failed", token)
		}
	}
	if !st.ClearDatabase() {
		t.Fatal("ClearDatabase failed")
	}
	alerts, ok := st.Load()
	if !ok || len(alerts) != 0 {
		t.Fatal("expected empty table after clear")
	}
}

func TestSQLitePersistsState(t *testing.T) {
	st := newTestDB(t)
	a := mustAlert(t, "tok", "alarm", time.Unix(5000, 0))
	if !st.Store(a) {
		t.Fatal("Store failed")
	}
	a.SetStateActive()
	if !st.Modify(a) {
		t.Fatal("Modify failed")
	}

	alerts, ok := st.Load()
	if !ok || len(alerts) != 1 {
		t.Fatal("Load failed")
	}
	if alerts[0].State() != AlertStateActive {
		t.Fatalf("expected persisted ACTIVE state, got %s", alerts[0].State())
	}
}
