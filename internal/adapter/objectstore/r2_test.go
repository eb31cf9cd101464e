package objectstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/okonev/orderdesk/internal/usecase"
)

type s3Stub struct {
	putInput    *s3.PutObjectInput
	deleteInput *s3.DeleteObjectInput
	putErr      error
	deleteErr   error
}

func (s *s3Stub) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.putInput = params
	if s.putErr != nil {
		return nil, s.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (s *s3Stub) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	s.deleteInput = params
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStore(stub *s3Stub) *R2Store {
	return &R2Store{
		client:    stub,
		bucket:    "screens",
		publicURL: "https://cdn.example.com",
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
}

func TestUpload(t *testing.T) {
	stub := &s3Stub{}
	store := newTestStore(stub)

	url, err := store.Upload(context.Background(), "screenshots/order", usecase.Screenshot{
		Data:        []byte("img"),
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/screenshots/order/") {
		t.Fatalf("unexpected url: %s", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("expected png extension, got %s", url)
	}
	if stub.putInput == nil || *stub.putInput.Bucket != "screens" {
		t.Fatalf("unexpected put input: %+v", stub.putInput)
	}
	if *stub.putInput.ContentType != "image/png" {
		t.Fatalf("unexpected content type: %s", *stub.putInput.ContentType)
	}

	stub.putErr = errors.New("denied")
	if _, err := store.Upload(context.Background(), "screenshots/order", usecase.Screenshot{Data: []byte("x")}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete(t *testing.T) {
	stub := &s3Stub{}
	store := newTestStore(stub)

	if err := store.Delete(context.Background(), "screenshots/order/key.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.deleteInput == nil || *stub.deleteInput.Key != "screenshots/order/key.png" {
		t.Fatalf("unexpected delete input: %+v", stub.deleteInput)
	}

	stub.deleteInput = nil
	if err := store.Delete(context.Background(), ""); err != nil {
		t.Fatalf("empty key must be a no-op, got %v", err)
	}
	if stub.deleteInput != nil {
		t.Fatal("empty key must not reach the bucket")
	}

	stub.deleteErr = errors.New("denied")
	if err := store.Delete(context.Background(), "k"); err == nil {
		t.Fatal("expected error")
	}
}

func TestKeyFromURL(t *testing.T) {
	store := newTestStore(&s3Stub{})

	if got := store.KeyFromURL("https://cdn.example.com/screenshots/order/a.png"); got != "screenshots/order/a.png" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := store.KeyFromURL("https://elsewhere.com/a.png"); got != "" {
		t.Fatalf("foreign url must map to empty key, got %s", got)
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":  ".png",
		"image/jpeg": ".jpg",
		"image/webp": ".webp",
		"text/plain": "",
	}
	for contentType, want := range cases {
		if got := extensionFor(contentType); got != want {
			t.Fatalf("%s: expected %q, got %q", contentType, want, got)
		}
	}
}
