package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/profile-analyzer/internal/ai"
	"github.com/spigell/profile-analyzer/internal/profile"
)

type recordingCompleter struct {
	requests []ai.Request
	failOn   int
	err      error
}

func (r *recordingCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	r.requests = append(r.requests, req)
	if r.err != nil && len(r.requests) == r.failOn {
		return "", r.err
	}
	return fmt.Sprintf("result %d", len(r.requests)), nil
}

var labels = []string{"Name:", "Headline:", "Summary:", "Experience:", "Education:", "Skills:"}

func TestFormatDocumentScenario(t *testing.T) {
	doc := FormatDocument(&profile.Record{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Headline:   "Mathematician",
		Experience: []profile.Entry{},
		Education:  []profile.Entry{},
		Skills:     []string{},
	})

	for _, line := range []string{
		"Name: Ada Lovelace\n",
		"Headline: Mathematician\n",
		"Summary: \n",
		"Experience: \n",
		"Education: \n",
		"Skills: \n",
	} {
		if !strings.Contains(doc, line) {
			t.Fatalf("expected %q in document:\n%s", line, doc)
		}
	}
}

func TestFormatDocumentAlwaysHasAllLabels(t *testing.T) {
	full := profile.Record{
		Name:       "Ada Lovelace",
		Headline:   "Mathematician",
		Summary:    "Wrote the first program.",
		Experience: []profile.Entry{{"title": "Analyst", "companyName": "Analytical Engine"}},
		Education:  []profile.Entry{{"schoolName": "Home tutoring"}},
		Skills:     []string{"Mathematics", "Poetry"},
	}

	clearers := []func(*profile.Record){
		func(r *profile.Record) { r.Name = "" },
		func(r *profile.Record) { r.Headline = "" },
		func(r *profile.Record) { r.Summary = "" },
		func(r *profile.Record) { r.Experience = nil },
		func(r *profile.Record) { r.Education = nil },
		func(r *profile.Record) { r.Skills = nil },
	}

	// every subset of missing fields
	for mask := 0; mask < 1<<len(clearers); mask++ {
		r := full
		for i, drop := range clearers {
			if mask&(1<<i) != 0 {
				drop(&r)
			}
		}

		doc := FormatDocument(&r)
		for _, label := range labels {
			if !strings.Contains(doc, label) {
				t.Fatalf("mask %b: label %q missing from:\n%s", mask, label, doc)
			}
		}
	}

	nilDoc := FormatDocument(nil)
	for _, label := range labels {
		if !strings.Contains(nilDoc, label) {
			t.Fatalf("label %q missing for nil record", label)
		}
	}
}

func TestFormatDocumentRendersEntries(t *testing.T) {
	doc := FormatDocument(&profile.Record{
		Experience: []profile.Entry{{"title": "Analyst", "companyName": "Engine Ltd"}},
		Skills:     []string{"Go", "SQL"},
	})

	if !strings.Contains(doc, `Experience: [{"companyName":"Engine Ltd","title":"Analyst"}]`) {
		t.Fatalf("unexpected experience rendering:\n%s", doc)
	}
	if !strings.Contains(doc, "Skills: Go, SQL\n") {
		t.Fatalf("unexpected skills rendering:\n%s", doc)
	}
}

func TestPipelineRunsEveryCategoryInOrder(t *testing.T) {
	completer := &recordingCompleter{}
	results, err := NewPipeline(completer, nil).Run(context.Background(), "doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(completer.requests) != 4 {
		t.Fatalf("expected 4 completion calls, got %d", len(completer.requests))
	}

	for i, category := range Categories() {
		req := completer.requests[i]
		if req.SystemPrompt != category.SystemPrompt() {
			t.Fatalf("call %d: wrong system prompt for %s", i, category)
		}
		if req.UserText != "doc" || req.MaxTokens != MaxTokens || req.Temperature != Temperature {
			t.Fatalf("call %d: unexpected request %+v", i, req)
		}
		if results[category] != fmt.Sprintf("result %d", i+1) {
			t.Fatalf("unexpected result for %s: %q", category, results[category])
		}
	}
}

func TestPipelineStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	completer := &recordingCompleter{failOn: 2, err: boom}

	results, err := NewPipeline(completer, nil).Run(context.Background(), "doc")
	if results != nil {
		t.Fatalf("expected no results, got %v", results)
	}
	if !errors.Is(err, ai.ErrCompletion) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped completion error, got %v", err)
	}
	if !strings.Contains(err.Error(), string(Experience)) {
		t.Fatalf("expected failing category in error, got %v", err)
	}
	if len(completer.requests) != 2 {
		t.Fatalf("expected 2 calls before abort, got %d", len(completer.requests))
	}
}

func TestCachePopulateIsIdempotent(t *testing.T) {
	completer := &recordingCompleter{}
	cache := NewCache(NewPipeline(completer, nil))

	if !cache.IsEmpty() {
		t.Fatal("new cache must be empty")
	}

	if err := cache.Populate(context.Background(), "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapshot := map[Category]string{}
	for _, c := range Categories() {
		snapshot[c] = cache.Get(c)
	}

	if err := cache.Populate(context.Background(), "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(completer.requests) != 4 {
		t.Fatalf("expected exactly 4 completion calls, got %d", len(completer.requests))
	}

	for _, c := range Categories() {
		if cache.Get(c) != snapshot[c] {
			t.Fatalf("cache changed for %s", c)
		}
	}

	if !reflect.DeepEqual(cache.Categories(), Categories()) {
		t.Fatalf("unexpected categories: %v", cache.Categories())
	}
}

func TestCacheKeepsNothingOnFailure(t *testing.T) {
	completer := &recordingCompleter{failOn: 3, err: errors.New("rate limited")}
	cache := NewCache(NewPipeline(completer, nil))

	if err := cache.Populate(context.Background(), "doc"); err == nil {
		t.Fatal("expected error")
	}
	if !cache.IsEmpty() {
		t.Fatal("failed populate must leave the cache empty")
	}
}

func TestCacheGetSentinel(t *testing.T) {
	cache := NewCache(nil)
	if got := cache.Get(Research); got != NotAvailable {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if got := cache.Get(Category("Unknown")); got != NotAvailable {
		t.Fatalf("expected sentinel, got %q", got)
	}
	if err := cache.Populate(context.Background(), "doc"); err == nil {
		t.Fatal("expected error without pipeline")
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Leadership & Entrepreneurship")
	if !ok || c != Leadership {
		t.Fatalf("unexpected parse result: %q %v", c, ok)
	}
	if _, ok := ParseCategory("leadership"); ok {
		t.Fatal("expected exact match only")
	}
	for _, c := range Categories() {
		if c.SystemPrompt() == "" {
			t.Fatalf("missing system prompt for %s", c)
		}
	}
}
