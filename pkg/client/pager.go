package client

import (
	"context"
	"sync"

	"bazaarbondhu/internal/domain/access"
)

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// FetchFunc loads one page for the given filters.
type FetchFunc[T any] func(ctx context.Context, filters access.Filters, page, limit int) (Page[T], error)

type PagerState struct {
	Page       int
	Limit      int
	TotalPages int
	Total      int64
	Filters    access.Filters
}

// Pager drives a paginated list. Every page or filter change triggers one
// fetch; only the newest request's response is applied and older in-flight
// fetches are cancelled. A failed fetch keeps the last good page.
type Pager[T any] struct {
	fetch FetchFunc[T]

	mu        sync.Mutex
	state     PagerState
	committed PagerState
	items     []T
	seq       uint64
	cancel    context.CancelFunc
}

func NewPager[T any](limit int, fetch FetchFunc[T]) *Pager[T] {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	initial := PagerState{Page: 1, Limit: limit, TotalPages: 1}
	return &Pager[T]{
		fetch:     fetch,
		state:     initial,
		committed: initial,
	}
}

// State reports the requested position, which may run ahead of Items while a
// fetch is in flight.
func (p *Pager[T]) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Load fetches the current page.
func (p *Pager[T]) Load(ctx context.Context) error {
	return p.run(ctx, func(*PagerState) bool { return true })
}

// Next is a no-op on the last page.
func (p *Pager[T]) Next(ctx context.Context) error {
	return p.run(ctx, func(s *PagerState) bool {
		if s.Page >= s.TotalPages {
			return false
		}
		s.Page++
		return true
	})
}

// Prev is a no-op on the first page.
func (p *Pager[T]) Prev(ctx context.Context) error {
	return p.run(ctx, func(s *PagerState) bool {
		if s.Page <= 1 {
			return false
		}
		s.Page--
		return true
	})
}

// GoTo ignores pages outside 1..TotalPages.
func (p *Pager[T]) GoTo(ctx context.Context, page int) error {
	return p.run(ctx, func(s *PagerState) bool {
		if page < 1 || page > s.TotalPages || page == s.Page {
			return false
		}
		s.Page = page
		return true
	})
}

// SetFilter empties the named fields, overlays patch on the current
// filters and returns to page 1. A call that leaves the filters as they were
// fetches nothing; a patch that sets fields always counts as a change.
func (p *Pager[T]) SetFilter(ctx context.Context, patch access.Filters, fields ...access.FilterField) error {
	return p.run(ctx, func(s *PagerState) bool {
		next := s.Filters.Clear(fields...).Merge(patch)
		if patch.Empty() && next == s.Filters {
			return false
		}
		s.Filters = next
		s.Page = 1
		return true
	})
}

// ClearFilters drops every filter and returns to page 1.
func (p *Pager[T]) ClearFilters(ctx context.Context) error {
	return p.run(ctx, func(s *PagerState) bool {
		if s.Filters.Empty() {
			return false
		}
		s.Filters = access.Filters{}
		s.Page = 1
		return true
	})
}

func (p *Pager[T]) run(ctx context.Context, mutate func(*PagerState) bool) error {
	p.mu.Lock()
	next := p.state
	if !mutate(&next) {
		p.mu.Unlock()
		return nil
	}
	p.state = next
	p.seq++
	seq := p.seq
	if p.cancel != nil {
		p.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	page, err := p.fetch(fetchCtx, next.Filters, next.Page, next.Limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	cancel()
	if seq != p.seq {
		return ErrStale
	}
	p.cancel = nil

	if err != nil {
		p.state = p.committed
		return err
	}

	next.Total = page.Total
	next.TotalPages = page.TotalPages
	if next.TotalPages < 1 {
		next.TotalPages = 1
	}
	p.state = next
	p.committed = next
	p.items = page.Items
	return nil
}
