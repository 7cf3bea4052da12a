package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/domain/access"
)

type recordedFetch struct {
	filters access.Filters
	page    int
}

func countingPager(totalPages int) (*Pager[int], *[]recordedFetch) {
	var mu sync.Mutex
	calls := []recordedFetch{}
	p := NewPager(10, func(_ context.Context, f access.Filters, page, limit int) (Page[int], error) {
		mu.Lock()
		calls = append(calls, recordedFetch{filters: f, page: page})
		mu.Unlock()
		return Page[int]{Items: []int{page}, Page: page, PageSize: limit, TotalPages: totalPages, Total: int64(totalPages * limit)}, nil
	})
	return p, &calls
}

func TestPager_NextAndPrevStayInBounds(t *testing.T) {
	ctx := context.Background()
	p, calls := countingPager(2)
	require.NoError(t, p.Load(ctx))

	require.NoError(t, p.Prev(ctx))
	assert.Equal(t, 1, p.State().Page, "prev on page 1 is a no-op")
	assert.Len(t, *calls, 1, "no fetch for a no-op")

	require.NoError(t, p.Next(ctx))
	assert.Equal(t, 2, p.State().Page)
	assert.Equal(t, []int{2}, p.Items())

	require.NoError(t, p.Next(ctx))
	assert.Equal(t, 2, p.State().Page, "next on the last page is a no-op")
	assert.Len(t, *calls, 2)
}

func TestPager_SetFilterResetsToFirstPage(t *testing.T) {
	ctx := context.Background()
	patches := []access.Filters{
		{Search: "rice"},
		{Sort: string(access.SortPriceAsc)},
		{StartDate: "2025-01-01", EndDate: "2025-01-31"},
		{VendorEmail: "v@example.com"},
	}

	for _, patch := range patches {
		p, calls := countingPager(5)
		require.NoError(t, p.Load(ctx))
		require.NoError(t, p.Next(ctx))
		require.NoError(t, p.Next(ctx))
		require.Equal(t, 3, p.State().Page)

		require.NoError(t, p.SetFilter(ctx, patch))
		assert.Equal(t, 1, p.State().Page)
		last := (*calls)[len(*calls)-1]
		assert.Equal(t, 1, last.page)
		assert.Equal(t, patch, last.filters)
		assert.Len(t, *calls, 4, "one fetch per change")
	}
}

func TestPager_EmptyPatchIsNoOp(t *testing.T) {
	ctx := context.Background()
	p, calls := countingPager(5)
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.Next(ctx))

	require.NoError(t, p.SetFilter(ctx, access.Filters{}))
	assert.Equal(t, 2, p.State().Page)
	assert.Len(t, *calls, 2)
}

func TestPager_ClearingOneFilterRefetchesFirstPage(t *testing.T) {
	ctx := context.Background()
	p, calls := countingPager(5)
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.SetFilter(ctx, access.Filters{Search: "rice", Sort: "price_asc"}))
	require.NoError(t, p.Next(ctx))
	require.Equal(t, 2, p.State().Page)
	require.Len(t, *calls, 3)

	require.NoError(t, p.SetFilter(ctx, access.Filters{}, access.FieldSearch))
	assert.Equal(t, 1, p.State().Page)
	assert.Equal(t, access.Filters{Sort: "price_asc"}, p.State().Filters)
	require.Len(t, *calls, 4, "clearing is one change and one fetch")
	last := (*calls)[3]
	assert.Equal(t, 1, last.page)
	assert.Empty(t, last.filters.Search)

	require.NoError(t, p.SetFilter(ctx, access.Filters{}, access.FieldSearch))
	assert.Len(t, *calls, 4, "clearing an unset filter changes nothing")

	require.NoError(t, p.SetFilter(ctx, access.Filters{Search: "dal"}, access.FieldSort))
	assert.Equal(t, access.Filters{Search: "dal"}, p.State().Filters)
	assert.Len(t, *calls, 5)
}

func TestPager_FiltersAccumulate(t *testing.T) {
	ctx := context.Background()
	p, _ := countingPager(1)
	require.NoError(t, p.SetFilter(ctx, access.Filters{Search: "rice"}))
	require.NoError(t, p.SetFilter(ctx, access.Filters{Sort: "price_desc"}))
	assert.Equal(t, access.Filters{Search: "rice", Sort: "price_desc"}, p.State().Filters)

	require.NoError(t, p.ClearFilters(ctx))
	assert.True(t, p.State().Filters.Empty())
}

func TestPager_DiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	p := NewPager(10, func(ctx context.Context, f access.Filters, page, limit int) (Page[string], error) {
		if f.Search == "slow" {
			close(started)
			<-release
			return Page[string]{Items: []string{"slow"}, TotalPages: 1}, nil
		}
		return Page[string]{Items: []string{"fast"}, TotalPages: 1}, nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- p.SetFilter(ctx, access.Filters{Search: "slow"}) }()
	<-started

	require.NoError(t, p.SetFilter(ctx, access.Filters{Search: "fast"}))
	close(release)

	assert.ErrorIs(t, <-errCh, ErrStale)
	assert.Equal(t, []string{"fast"}, p.Items())
	assert.Equal(t, "fast", p.State().Filters.Search)
}

func TestPager_CancelsSupersededFetch(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})

	p := NewPager(10, func(ctx context.Context, f access.Filters, page, limit int) (Page[string], error) {
		if f.Search == "first" {
			close(started)
			<-ctx.Done()
			return Page[string]{}, ctx.Err()
		}
		return Page[string]{Items: []string{"second"}, TotalPages: 1}, nil
	})

	errCh := make(chan error, 1)
	go func() { errCh <- p.SetFilter(ctx, access.Filters{Search: "first"}) }()
	<-started

	require.NoError(t, p.SetFilter(ctx, access.Filters{Search: "second"}))
	assert.ErrorIs(t, <-errCh, ErrStale)
	assert.Equal(t, []string{"second"}, p.Items())
}

func TestPager_FailureKeepsPreviousPage(t *testing.T) {
	ctx := context.Background()
	fail := false
	p := NewPager(10, func(_ context.Context, _ access.Filters, page, _ int) (Page[int], error) {
		if fail {
			return Page[int]{}, errors.New("boom")
		}
		return Page[int]{Items: []int{page}, TotalPages: 3}, nil
	})

	require.NoError(t, p.Load(ctx))
	fail = true
	assert.Error(t, p.Next(ctx))
	assert.Equal(t, 1, p.State().Page)
	assert.Equal(t, []int{1}, p.Items())

	assert.Error(t, p.SetFilter(ctx, access.Filters{Search: "x"}))
	assert.True(t, p.State().Filters.Empty())
}
