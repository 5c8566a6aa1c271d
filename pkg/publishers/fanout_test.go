package publishers

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/unit-service/internal/logger"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingPublisher struct {
	stubPublisher
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: "http"},
		nil,
		&stubPublisher{id: "bad", typ: "http", err: errors.New("failed")},
	})
	if fanout.Size() != 2 {
		t.Fatalf("Size = %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), sampleEvent())
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutCloseReleasesClosers(t *testing.T) {
	c := &closingPublisher{stubPublisher{id: "gcp", typ: TypePubSub}}
	fanout := NewFanout([]Publisher{&stubPublisher{id: "http", typ: TypeHTTP}, c})

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !c.closed {
		t.Fatalf("closer publisher was not closed")
	}

	var nilFanout *Fanout
	if n, err := nilFanout.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout Publish = %d, %v", n, err)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d", len(pubs))
	}
}

func TestRegistryRegisterCustomType(t *testing.T) {
	reg := DefaultRegistry()
	reg.Register("  Stub ", func(_ context.Context, cfg PublisherConfig, _ logger.Logger) (Publisher, error) {
		return &stubPublisher{id: cfg.ID, typ: "stub"}, nil
	})
	reg.Register("", nil)

	if got := reg.Types(); len(got) != 5 || got[3] != "sqs" || got[4] != "stub" {
		t.Fatalf("Types = %v", got)
	}
	pub, err := reg.Build(context.Background(), PublisherConfig{ID: "s", Type: "STUB"}, nil)
	if err != nil || pub.ID() != "s" {
		t.Fatalf("Build = %v, %v", pub, err)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "kafka", Type: "kafka"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
