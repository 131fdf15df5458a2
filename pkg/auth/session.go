// Package auth identifies the operator at a workstation. The operator signs
// in once per shift; the identity lives server-side in Redis and the browser
// only holds a signed, encrypted session id.
//
// Keys: SESSION_AUTH_KEY is 32 or 64 bytes (HMAC), SESSION_ENCRYPTION_KEY is
// 16, 24 or 32 bytes (AES). Generate them with `openssl rand -base64 32`.
package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "shopfloor:operator_session:"
	// DefaultShift is the session lifetime when none is configured.
	DefaultShift = 12 * time.Hour
)

var errNonStringValue = errors.New("auth: operator sessions hold string values only")

// StoreOptions configures an OperatorStore.
type StoreOptions struct {
	AuthKey       []byte
	EncryptionKey []byte
	// Shift is the idle lifetime of a session; each request extends it.
	Shift time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// OperatorStore is a sessions.Store that keeps each session as a Redis hash
// of string fields under shopfloor:operator_session:<id>.
type OperatorStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options sessions.Options
}

var _ sessions.Store = (*OperatorStore)(nil)

// NewOperatorStore returns a store on client.
func NewOperatorStore(client *redis.Client, opts StoreOptions) *OperatorStore {
	shift := opts.Shift
	if shift <= 0 {
		shift = DefaultShift
	}
	return &OperatorStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(opts.AuthKey, opts.EncryptionKey),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   int(shift / time.Second),
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request's cached session.
func (s *OperatorStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or
// expired session yields a fresh one and no error. Loading an existing
// session extends its lifetime by one shift.
func (s *OperatorStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return session, nil
	}

	fields, err := s.load(r.Context(), id)
	if err != nil || len(fields) == 0 {
		return session, nil
	}
	session.ID = id
	for k, v := range fields {
		session.Values[k] = v
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session and its cookie. A negative MaxAge signs the
// operator out and removes the Redis key.
func (s *OperatorStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), sessionKeyPrefix+session.ID).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	fields, err := stringFields(session.Values)
	if err != nil {
		return err
	}
	if err := s.store(r.Context(), session.ID, fields, time.Duration(session.Options.MaxAge)*time.Second); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *OperatorStore) store(ctx context.Context, id string, fields map[string]string, ttl time.Duration) error {
	key := sessionKeyPrefix + id
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(fields) > 0 {
			p.HSet(ctx, key, fields)
		}
		p.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *OperatorStore) load(ctx context.Context, id string) (map[string]string, error) {
	key := sessionKeyPrefix + id
	var get *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		get = p.HGetAll(ctx, key)
		p.Expire(ctx, key, time.Duration(s.options.MaxAge)*time.Second)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return get.Val(), nil
}

func stringFields(values map[any]any) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for k, v := range values {
		ks, kok := k.(string)
		vs, vok := v.(string)
		if !kok || !vok {
			return nil, fmt.Errorf("%w: %v=%T", errNonStringValue, k, v)
		}
		out[ks] = vs
	}
	return out, nil
}
