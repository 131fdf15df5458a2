package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

func TestStringFields(t *testing.T) {
	got, err := stringFields(map[any]any{sessionOperatorIDKey: "op-1", sessionOperatorNameKey: "Ada"})
	if err != nil {
		t.Fatalf("stringFields: %v", err)
	}
	if got[sessionOperatorIDKey] != "op-1" || got[sessionOperatorNameKey] != "Ada" {
		t.Errorf("got %v", got)
	}

	if _, err := stringFields(map[any]any{"shift": 3}); !errors.Is(err, errNonStringValue) {
		t.Errorf("err = %v, want errNonStringValue", err)
	}
}

func TestNewOperatorStore_DefaultShift(t *testing.T) {
	s := NewOperatorStore(nil, StoreOptions{AuthKey: []byte("k")})
	if s.options.MaxAge != int(DefaultShift/time.Second) {
		t.Errorf("MaxAge = %d", s.options.MaxAge)
	}
	if !s.options.HttpOnly || s.options.Secure {
		t.Errorf("unexpected cookie options %+v", s.options)
	}
}

// TestOperatorStore_Redis runs against a live Redis when REDIS_URL is set.
func TestOperatorStore_Redis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opt)
	defer client.Close() //nolint:errcheck

	store := NewOperatorStore(client, StoreOptions{
		AuthKey:       []byte("0123456789abcdef0123456789abcdef"),
		EncryptionKey: []byte("0123456789abcdef"),
		Shift:         time.Minute,
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/operator/session", http.NoBody)
	sess, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	sess.Values[sessionOperatorIDKey] = "op-9"
	if err := sess.Save(r, w); err != nil {
		t.Fatalf("save: %v", err)
	}
	key := sessionKeyPrefix + sess.ID
	defer client.Del(context.Background(), key)

	if ttl := client.TTL(context.Background(), key).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v", ttl)
	}

	r2 := httptest.NewRequest(http.MethodGet, "/api/production/states", http.NoBody)
	for _, c := range w.Result().Cookies() {
		r2.AddCookie(c)
	}
	loaded, err := store.New(r2, sessionName)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if loaded.IsNew || loaded.Values[sessionOperatorIDKey] != "op-9" {
		t.Fatalf("loaded = %+v", loaded.Values)
	}

	loaded.Options.MaxAge = -1
	if err := store.Save(r2, httptest.NewRecorder(), loaded); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if n := client.Exists(context.Background(), key).Val(); n != 0 {
		t.Error("session key survived sign out")
	}
	var _ sessions.Store = store
}
