package analysis

import (
	"context"
	"errors"
)

// NotAvailable is returned by Get for categories without a result.
const NotAvailable = "No analysis available yet."

// Cache keeps analysis results for one loaded profile. Once populated it is
// never recomputed; callers discard it to start over.
type Cache struct {
	pipeline *Pipeline
	results  map[Category]string
}

func NewCache(pipeline *Pipeline) *Cache {
	return &Cache{
		pipeline: pipeline,
		results:  make(map[Category]string),
	}
}

// Populate runs the pipeline when the cache is empty and stores all results.
// On a non-empty cache it does nothing. A failed run stores nothing.
func (c *Cache) Populate(ctx context.Context, document string) error {
	if !c.IsEmpty() {
		return nil
	}

	if c.pipeline == nil {
		return errors.New("cache has no analysis pipeline")
	}

	results, err := c.pipeline.Run(ctx, document)
	if err != nil {
		return err
	}

	for category, text := range results {
		c.results[category] = text
	}

	return nil
}

// Get returns the stored result or NotAvailable.
func (c *Cache) Get(category Category) string {
	if text, ok := c.results[category]; ok {
		return text
	}
	return NotAvailable
}

func (c *Cache) IsEmpty() bool {
	return len(c.results) == 0
}

// Categories lists the populated categories in display order.
func (c *Cache) Categories() []Category {
	out := make([]Category, 0, len(c.results))
	for _, category := range orderedCategories {
		if _, ok := c.results[category]; ok {
			out = append(out, category)
		}
	}
	return out
}
