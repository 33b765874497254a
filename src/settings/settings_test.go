package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kerberos-io/translator/src/models"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, models.DefaultSettingsLocation); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on an empty store, got %v", err)
	}

	first := models.Settings{
		Location: models.DefaultSettingsLocation,
		URL:      "http://10.232.0.34:80/video/mjpg.cgi",
		Username: "admin",
		Password: "camPass$2",
	}
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, models.DefaultSettingsLocation)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != first {
		t.Errorf("expected %+v, got %+v", first, got)
	}

	second := first
	second.URL = "http://192.168.1.50:80/video/mjpg.cgi"
	second.Password = "changed"
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err = store.Get(ctx, models.DefaultSettingsLocation)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != second {
		t.Errorf("expected %+v, got %+v", second, got)
	}

	other := models.Settings{Location: "Software\\Other", URL: "rtsp://cam/live", Username: "u", Password: "p"}
	if err := store.Put(ctx, other); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, _ = store.Get(ctx, models.DefaultSettingsLocation)
	if got != second {
		t.Errorf("writing another location changed the default one: %+v", got)
	}
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	defer store.Close()
	exerciseStore(t, store)
}

func TestFileStoreConcurrentPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewFileStore(path)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Put(context.Background(), models.Settings{
				Location: models.DefaultSettingsLocation,
				URL:      "http://camera/" + string(rune('a'+i)),
			})
		}(i)
	}
	wg.Wait()

	if _, err := store.Get(context.Background(), models.DefaultSettingsLocation); err != nil {
		t.Fatalf("Get failed after concurrent writes: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file was left behind")
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStoreMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	store.Close()

	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store.Close()
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TRANSLATOR_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TRANSLATOR_TEST_MONGODB_URI not set")
	}
	store, err := NewMongoStore(context.Background(), uri, "translator_test")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	store.collection.Drop(context.Background())
	defer store.Close()
	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	directory := t.TempDir()

	store, err := Open(context.Background(), directory, models.SettingsConfig{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("expected the file store by default, got %T", store)
	}

	store, err = Open(context.Background(), directory, models.SettingsConfig{
		Backend: "sqlite",
		URI:     "sqlite://" + filepath.Join(directory, "s.db"),
	})
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("expected the sqlite store, got %T", store)
	}

	if _, err := Open(context.Background(), directory, models.SettingsConfig{Backend: "registry"}); err == nil {
		t.Error("expected an error for an unsupported backend")
	}
}
