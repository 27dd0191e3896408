package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spigell/profile-analyzer/internal/ai"
	"github.com/spigell/profile-analyzer/internal/analysis"
	"github.com/spigell/profile-analyzer/internal/profile"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingCompleter struct {
	calls     int
	documents []string
	err       error
}

func (c *countingCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	c.calls++
	c.documents = append(c.documents, req.UserText)
	if c.err != nil {
		return "", c.err
	}
	return fmt.Sprintf("analysis %d", c.calls), nil
}

type fakeSource struct {
	records map[string]*profile.Record
}

func (f *fakeSource) FetchProfile(_ context.Context, id string) (*profile.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, errors.New("connection reset")
	}
	return r, nil
}

type fakeProvider struct {
	name string
	err  error
	src  profile.Source
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Open(context.Context) (profile.Source, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.src, nil
}

var records = map[string]*profile.Record{
	"ada-lovelace":    {FirstName: "Ada", LastName: "Lovelace", Headline: "Mathematician"},
	"charles-babbage": {FirstName: "Charles", LastName: "Babbage", Headline: "Inventor"},
}

func newSession(completer ai.Completer, logger *zap.Logger, providers ...profile.Provider) *Session {
	return New(Deps{
		Providers: providers,
		Pipeline:  analysis.NewPipeline(completer, nil),
		Logger:    logger,
	})
}

func TestLoadFallsBackToBackupCredentials(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	completer := &countingCompleter{}
	src := &fakeSource{records: records}

	s := newSession(completer, zap.New(core),
		&fakeProvider{name: "primary", err: fmt.Errorf("%w: bad password", profile.ErrAuthentication)},
		&fakeProvider{name: "backup", src: src},
	)

	cache, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cache.Categories()) != 4 {
		t.Fatalf("expected 4 cached categories, got %v", cache.Categories())
	}
	if completer.calls != 4 {
		t.Fatalf("expected 4 completion calls, got %d", completer.calls)
	}
	if !strings.Contains(completer.documents[0], "Name: Ada Lovelace") {
		t.Fatalf("unexpected document: %s", completer.documents[0])
	}

	warnings := observed.FilterMessage("authentication attempt failed").All()
	if len(warnings) != 1 || warnings[0].ContextMap()["provider"] != "primary" {
		t.Fatalf("expected one warning for the primary provider, got %+v", warnings)
	}
	if warnings[0].ContextMap()["session_id"] != s.ID() {
		t.Fatalf("expected session id on log entry")
	}
}

func TestLoadReusesCacheForSameProfile(t *testing.T) {
	completer := &countingCompleter{}
	s := newSession(completer, nil, &fakeProvider{name: "primary", src: &fakeSource{records: records}})

	first, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatal("expected the same cache for the same profile")
	}
	if completer.calls != 4 {
		t.Fatalf("expected no new completion calls, got %d", completer.calls)
	}
}

func TestLoadStartsFreshCacheForNewProfile(t *testing.T) {
	completer := &countingCompleter{}
	s := newSession(completer, nil, &fakeProvider{name: "primary", src: &fakeSource{records: records}})

	first, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adaGeneral := first.Get(analysis.GeneralAnalysis)

	second, err := s.Load(context.Background(), "https://www.example.com/in/charles-babbage/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if completer.calls != 8 {
		t.Fatalf("expected a second set of completion calls, got %d", completer.calls)
	}
	if second.Get(analysis.GeneralAnalysis) == adaGeneral {
		t.Fatal("expected analysis of the new profile")
	}
	if !strings.Contains(completer.documents[4], "Name: Charles Babbage") {
		t.Fatalf("unexpected document: %s", completer.documents[4])
	}
	if s.Cache() != second {
		t.Fatal("session should expose the current cache")
	}
}

func TestLoadErrors(t *testing.T) {
	src := &fakeSource{records: records}

	t.Run("malformed url", func(t *testing.T) {
		s := newSession(&countingCompleter{}, nil, &fakeProvider{name: "primary", src: src})
		if _, err := s.Load(context.Background(), "ada"); !errors.Is(err, profile.ErrProfileRetrieval) {
			t.Fatalf("expected ErrProfileRetrieval, got %v", err)
		}
	})

	t.Run("all credentials rejected", func(t *testing.T) {
		completer := &countingCompleter{}
		s := newSession(completer, nil,
			&fakeProvider{name: "primary", err: errors.New("denied")},
			&fakeProvider{name: "backup", err: errors.New("denied")},
		)
		if _, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/"); !errors.Is(err, profile.ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}
		if completer.calls != 0 {
			t.Fatal("pipeline must not run without a profile")
		}
	})

	t.Run("profile lookup fails", func(t *testing.T) {
		completer := &countingCompleter{}
		s := newSession(completer, nil, &fakeProvider{name: "primary", src: src})
		if _, err := s.Load(context.Background(), "https://www.example.com/in/grace-hopper/"); !errors.Is(err, profile.ErrProfileRetrieval) {
			t.Fatalf("expected ErrProfileRetrieval, got %v", err)
		}
		if completer.calls != 0 {
			t.Fatal("pipeline must not run without a profile")
		}
	})

	t.Run("completion fails and session stays usable", func(t *testing.T) {
		completer := &countingCompleter{err: errors.New("quota")}
		s := newSession(completer, nil, &fakeProvider{name: "primary", src: src})
		if _, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/"); !errors.Is(err, ai.ErrCompletion) {
			t.Fatalf("expected ErrCompletion, got %v", err)
		}

		completer.err = nil
		cache, err := s.Load(context.Background(), "https://www.example.com/in/ada-lovelace/")
		if err != nil {
			t.Fatalf("unexpected error on retry: %v", err)
		}
		if cache.IsEmpty() {
			t.Fatal("expected populated cache after a successful attempt")
		}
	})
}
