package store

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"oncology-dashboard/internal/config"
	"oncology-dashboard/internal/models"
)

var (
	testPair     = models.TokenPair{Access: "access-1", Refresh: "refresh-1"}
	testIdentity = models.Identity{ID: "7", Email: "ada@clinic.test", Role: models.RoleDoctor, Name: "Ada Lovelace"}
)

func openTestDB(t *testing.T) *DBStore {
	t.Helper()
	return NewDBStore(openTestGorm(t))
}

func openSealedDB(t *testing.T, db *gorm.DB, secret string) *DBStore {
	t.Helper()
	s, err := NewSealedDBStore(db, secret)
	if err != nil {
		t.Fatalf("NewSealedDBStore() error = %v", err)
	}
	return s
}

func openTestGorm(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenDB(config.StoreConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestStores_RoundTrip(t *testing.T) {
	stores := map[string]Store{
		"memory":    NewMemoryStore(),
		"db":        openTestDB(t),
		"sealed":    openSealedDB(t, openTestGorm(t), "s3cret"),
		"resilient": NewResilient(openTestDB(t)),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if _, ok := s.Load(); ok {
				t.Fatal("expected empty store")
			}

			if err := s.Save(testPair, testIdentity); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			saved, ok := s.Load()
			if !ok {
				t.Fatal("expected saved session")
			}
			if saved.Pair != testPair {
				t.Errorf("pair = %+v, want %+v", saved.Pair, testPair)
			}
			if saved.Identity != testIdentity {
				t.Errorf("identity = %+v, want %+v", saved.Identity, testIdentity)
			}

			// overwrite keeps a single session
			next := models.TokenPair{Access: "access-2", Refresh: "refresh-1"}
			if err := s.Save(next, testIdentity); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			saved, _ = s.Load()
			if saved.Pair.Access != "access-2" {
				t.Errorf("access = %q, want access-2", saved.Pair.Access)
			}

			if err := s.Clear(); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if _, ok := s.Load(); ok {
				t.Error("expected empty store after Clear()")
			}
			// clearing twice is harmless
			if err := s.Clear(); err != nil {
				t.Errorf("second Clear() error = %v", err)
			}
		})
	}
}

type brokenStore struct{}

func (brokenStore) Save(models.TokenPair, models.Identity) error { return errors.New("quota exceeded") }
func (brokenStore) Load() (Saved, bool) { return Saved{}, false }
func (brokenStore) Clear() error { return errors.New("quota exceeded") }

func TestResilient_DegradesToMemory(t *testing.T) {
	s := NewResilient(brokenStore{})

	if err := s.Save(testPair, testIdentity); err != nil {
		t.Fatalf("Save() must not surface storage errors, got %v", err)
	}
	saved, ok := s.Load()
	if !ok || saved.Pair != testPair {
		t.Fatalf("expected in-memory session, got %+v ok=%v", saved, ok)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() must not surface storage errors, got %v", err)
	}
	if _, ok := s.Load(); ok {
		t.Error("expected empty session after Clear()")
	}
}

func TestResilient_LoadsDurableOnStartup(t *testing.T) {
	durable := NewMemoryStore()
	if err := durable.Save(testPair, testIdentity); err != nil {
		t.Fatal(err)
	}

	s := NewResilient(durable)
	saved, ok := s.Load()
	if !ok || saved.Pair != testPair {
		t.Fatalf("expected session from durable store, got %+v ok=%v", saved, ok)
	}
}

func TestDecode_MissingAccessToken(t *testing.T) {
	if _, ok := decode(map[string]string{KeyRefreshToken: "r", KeyUser: "{}"}); ok {
		t.Error("a session without an access token must not load")
	}
	saved, ok := decode(map[string]string{KeyAccessToken: "a", KeyUser: "not json"})
	if !ok {
		t.Fatal("expected session with unreadable user entry to load")
	}
	if saved.Identity != (models.Identity{}) {
		t.Errorf("expected zero identity, got %+v", saved.Identity)
	}
}

func TestSealedDBStore(t *testing.T) {
	db := openTestGorm(t)
	s := openSealedDB(t, db, "s3cret")
	if err := s.Save(testPair, testIdentity); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var rows []SessionEntry
	if err := db.Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if strings.Contains(row.Value, "access-1") || strings.Contains(row.Value, "ada@clinic.test") {
			t.Errorf("%s stored in clear: %q", row.EntryKey, row.Value)
		}
	}

	if _, ok := openSealedDB(t, db, "other").Load(); ok {
		t.Error("a different secret must not read the session")
	}
	saved, ok := s.Load()
	if !ok || saved.Pair != testPair || saved.Identity != testIdentity {
		t.Errorf("Load() = %+v ok=%v", saved, ok)
	}
}

func TestSealer(t *testing.T) {
	if _, err := NewSealer(""); err == nil {
		t.Error("empty secret must be rejected")
	}
	sealer, err := NewSealer("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	a, _ := sealer.Seal(KeyAccessToken, "token")
	b, _ := sealer.Seal(KeyAccessToken, "token")
	if a == b {
		t.Error("nonces must differ between seals")
	}
	if got, err := sealer.Open(KeyAccessToken, a); err != nil || got != "token" {
		t.Errorf("Open() = %q, %v", got, err)
	}
	if _, err := sealer.Open(KeyRefreshToken, a); !errors.Is(err, ErrUnsealable) {
		t.Errorf("value moved to another key: err = %v, want ErrUnsealable", err)
	}
	if _, err := sealer.Open(KeyAccessToken, "not base64!"); !errors.Is(err, ErrUnsealable) {
		t.Errorf("garbage: err = %v, want ErrUnsealable", err)
	}
}

// flakyStore fails the next failClears Clear calls and, while failSaves is
// set, every Save carrying an access token.
type flakyStore struct {
	*MemoryStore
	failClears int
	failSaves  bool
}

func (f *flakyStore) Save(pair models.TokenPair, identity models.Identity) error {
	if f.failSaves && pair.Access != "" {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(pair, identity)
}

func (f *flakyStore) Clear() error {
	if f.failClears > 0 {
		f.failClears--
		return errors.New("database locked")
	}
	return f.MemoryStore.Clear()
}

func TestResilient_LogoutSurvivesRestart(t *testing.T) {
	tests := []struct {
		name       string
		failClears int
	}{
		{"clear succeeds on retry", 1},
		{"clear keeps failing", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			durable := &flakyStore{MemoryStore: NewMemoryStore()}
			s := NewResilient(durable)
			if err := s.Save(testPair, testIdentity); err != nil {
				t.Fatal(err)
			}

			durable.failClears = tt.failClears
			if err := s.Clear(); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}

			if saved, ok := NewResilient(durable).Load(); ok {
				t.Errorf("logged-out session restored after restart: %+v", saved)
			}
		})
	}
}

func TestResilient_FailedSaveDropsStaleSession(t *testing.T) {
	durable := &flakyStore{MemoryStore: NewMemoryStore()}
	s := NewResilient(durable)
	if err := s.Save(testPair, testIdentity); err != nil {
		t.Fatal(err)
	}

	durable.failSaves = true
	next := models.TokenPair{Access: "access-2", Refresh: "refresh-2"}
	if err := s.Save(next, testIdentity); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved, _ := s.Load(); saved.Pair != next {
		t.Errorf("in-process session = %+v, want %+v", saved.Pair, next)
	}

	if saved, ok := NewResilient(durable).Load(); ok {
		t.Errorf("stale session restored after restart: %+v", saved)
	}
}
