package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

// fakeS3 serves path-style HEAD bucket, PUT and GET object from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	bucket  bool
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/")
	parts := strings.SplitN(path, "/", 2)
	resp := func(code int, body []byte) *http.Response {
		return &http.Response{
			StatusCode: code,
			Header:     http.Header{},
			Body:       io.NopCloser(bytes.NewReader(body)),
			Request:    req,
		}
	}

	if len(parts) == 1 || parts[1] == "" {
		switch req.Method {
		case http.MethodHead:
			if f.bucket {
				return resp(http.StatusOK, nil), nil
			}
			return resp(http.StatusNotFound, nil), nil
		case http.MethodPut:
			f.bucket = true
			return resp(http.StatusOK, nil), nil
		}
		return resp(http.StatusMethodNotAllowed, nil), nil
	}

	key := parts[1]
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		return resp(http.StatusOK, nil), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return resp(http.StatusNotFound, []byte(`<Error><Code>NoSuchKey</Code></Error>`)), nil
		}
		r := resp(http.StatusOK, body)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	}
	return resp(http.StatusMethodNotAllowed, nil), nil
}

func newTestArchive(t *testing.T) (*Archive, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	a, err := New(context.Background(), Options{
		Endpoint:   "http://minio.test:9000",
		Bucket:     "archive",
		AccessKey:  "key",
		SecretKey:  "secret",
		HTTPClient: &http.Client{Transport: fake},
	}, logger.New(&config.Config{LogLevel: "error"}))
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	return a, fake
}

func TestArchive_EnsureBucketAndPing(t *testing.T) {
	a, fake := newTestArchive(t)
	ctx := context.Background()

	if err := a.Ping(ctx); err == nil {
		t.Fatal("expected ping to fail before the bucket exists")
	}
	if err := a.EnsureBucket(ctx); err != nil {
		t.Fatalf("ensure bucket: %v", err)
	}
	if !fake.bucket {
		t.Fatal("bucket was not created")
	}
	if err := a.Ping(ctx); err != nil {
		t.Fatalf("ping after create: %v", err)
	}
}

func TestArchive_PutGetJSON(t *testing.T) {
	a, fake := newTestArchive(t)
	ctx := context.Background()

	type doc struct {
		Produced int `json:"produced"`
	}
	if err := a.PutJSON(ctx, "production/2025/03/01/abc.json", doc{Produced: 10}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := fake.objects["production/2025/03/01/abc.json"]; !ok {
		t.Fatalf("object not stored, have %v", fake.objects)
	}

	var got doc
	if err := a.GetJSON(ctx, "production/2025/03/01/abc.json", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Produced != 10 {
		t.Fatalf("expected 10, got %d", got.Produced)
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Options{}, logger.New(&config.Config{LogLevel: "error"})); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(&config.Config{MinioEndpoint: "http://m:9000", MinioBucket: "b", MinioRootUser: "u"})
	if opts.Endpoint != "http://m:9000" || opts.Bucket != "b" || opts.AccessKey != "u" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
