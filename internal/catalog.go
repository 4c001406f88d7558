package internal

import (
	"context"
	"errors"
	"fmt"
	"gigbot/entity"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNoSource        = errors.New("no event source configured")
	ErrCatalogNotReady = errors.New("event catalog not loaded yet")
)

// EventSource provides the full list of known events.
type EventSource interface {
	Events(ctx context.Context) ([]entity.Event, error)
}

// Catalog keeps the last successfully fetched snapshot of events.
type Catalog struct {
	source EventSource

	mu          sync.RWMutex
	events      []entity.Event
	loaded      bool
	refreshedAt time.Time
}

func NewCatalog(source EventSource) *Catalog {
	return &Catalog{source: source}
}

// Refresh replaces the snapshot. On error the previous snapshot stays.
func (c *Catalog) Refresh(ctx context.Context) error {
	if c.source == nil {
		return ErrNoSource
	}
	events, err := c.source.Events(ctx)
	if err != nil {
		catalogRefreshFailures.Inc()
		return fmt.Errorf("refresh catalog: %w", err)
	}

	c.mu.Lock()
	c.events = events
	c.loaded = true
	c.refreshedAt = time.Now()
	c.mu.Unlock()

	catalogEvents.Set(float64(len(events)))
	return nil
}

func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// Search returns the events whose calendar day lies within the days of from
// and to (both inclusive, each read in its own location) matching style (any
// style when empty), ordered by ascending date. limit <= 0 means no limit.
func (c *Catalog) Search(style string, from, to time.Time, limit int) ([]entity.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, ErrCatalogNotReady
	}

	firstDay, lastDay := calendarDay(from), calendarDay(to)
	found := make([]entity.Event, 0)
	for _, e := range c.events {
		if style != "" && !strings.EqualFold(e.Style, style) {
			continue
		}
		day := calendarDay(e.EventDate)
		if day.Before(firstDay) || day.After(lastDay) {
			continue
		}
		found = append(found, e)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].EventDate.Before(found[j].EventDate)
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// calendarDay drops the clock and the zone, keeping the date as written.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
