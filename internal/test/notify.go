package test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okonev/orderdesk/internal/usecase"
)

// BroadcastRecord is one captured notifier event.
type BroadcastRecord struct {
	Event   string
	Payload any
}

// NotifierRecorder captures best-effort broadcasts for assertions.
type NotifierRecorder struct {
	sync.Mutex
	Events []BroadcastRecord
}

// Broadcast records the event without delivering anything.
func (n *NotifierRecorder) Broadcast(event string, payload any) {
	n.Lock()
	defer n.Unlock()
	n.Events = append(n.Events, BroadcastRecord{Event: event, Payload: payload})
}

// Recorded returns a copy of the captured events.
func (n *NotifierRecorder) Recorded() []BroadcastRecord {
	n.Lock()
	defer n.Unlock()
	return append([]BroadcastRecord(nil), n.Events...)
}

// ScreenshotStoreStub fakes the object store with deterministic URLs.
type ScreenshotStoreStub struct {
	sync.Mutex
	UploadErr error
	DeleteErr error
	Uploads   []string
	Deletes   []string
	counter   int
}

// Upload returns a fake public URL under the given kind prefix.
func (s *ScreenshotStoreStub) Upload(ctx context.Context, kind string, shot usecase.Screenshot) (string, error) {
	s.Lock()
	defer s.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	s.counter++
	url := fmt.Sprintf("https://cdn.test/%s/%d", kind, s.counter)
	s.Uploads = append(s.Uploads, url)
	return url, nil
}

// Delete records the removed key.
func (s *ScreenshotStoreStub) Delete(ctx context.Context, key string) error {
	s.Lock()
	defer s.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.Deletes = append(s.Deletes, key)
	return nil
}

// KeyFromURL strips the fake CDN prefix.
func (s *ScreenshotStoreStub) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, "https://cdn.test/")
}
