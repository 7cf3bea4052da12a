package repository

import (
	"sort"
	"strings"
	"time"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/pkg/utils"
)

// Stores apply whatever equality filters they can natively and hand the rest
// of a ListParams to the helpers below.

func inDateRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Paginate slices items for params.Page/params.Limit and returns the total
// before slicing.
func Paginate[T any](items []T, page, limit int) ([]T, int64) {
	total := int64(len(items))
	p := utils.NewPaginationParams(page, limit)
	if p.Offset >= len(items) {
		return []T{}, total
	}
	end := p.Offset + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end], total
}

func MatchProduct(p *entity.Product, params access.ListParams) bool {
	if params.VendorEmail != "" && p.VendorEmail != params.VendorEmail {
		return false
	}
	if params.Status != "" && p.Status != params.Status {
		return false
	}
	if !inDateRange(p.Date, params.StartDate, params.EndDate) {
		return false
	}
	if params.Search != "" &&
		!containsFold(p.ItemName, params.Search) &&
		!containsFold(p.MarketName, params.Search) {
		return false
	}
	return true
}

func SortProducts(items []*entity.Product, key access.SortKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case access.SortPriceAsc:
			return a.PricePerUnit < b.PricePerUnit
		case access.SortPriceDesc:
			return a.PricePerUnit > b.PricePerUnit
		case access.SortDateAsc:
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			if a.Date != b.Date {
				return a.Date > b.Date
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

// FilterProducts runs match, sort and pagination over an unfiltered set.
func FilterProducts(items []*entity.Product, params access.ListParams) ([]*entity.Product, int64) {
	out := make([]*entity.Product, 0, len(items))
	for _, p := range items {
		if MatchProduct(p, params) {
			out = append(out, p)
		}
	}
	SortProducts(out, params.Sort)
	return Paginate(out, params.Page, params.Limit)
}

func FilterAdvertisements(items []*entity.Advertisement, params access.ListParams) ([]*entity.Advertisement, int64) {
	out := make([]*entity.Advertisement, 0, len(items))
	for _, ad := range items {
		if params.VendorEmail != "" && ad.VendorEmail != params.VendorEmail {
			continue
		}
		if params.Status != "" && ad.Status != params.Status {
			continue
		}
		if !inDateRange(ad.CreatedAt.Format(entity.DateLayout), params.StartDate, params.EndDate) {
			continue
		}
		if params.Search != "" && !containsFold(ad.Title, params.Search) {
			continue
		}
		out = append(out, ad)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if params.Sort == access.SortDateAsc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return Paginate(out, params.Page, params.Limit)
}

func FilterOrders(items []*entity.Order, params access.ListParams) ([]*entity.Order, int64) {
	out := make([]*entity.Order, 0, len(items))
	for _, o := range items {
		if params.Email != "" && o.Email != params.Email {
			continue
		}
		if params.VendorEmail != "" && o.VendorEmail != params.VendorEmail {
			continue
		}
		if !inDateRange(o.PaidAt.Format(entity.DateLayout), params.StartDate, params.EndDate) {
			continue
		}
		if params.Search != "" && !containsFold(o.ItemName, params.Search) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch params.Sort {
		case access.SortPriceAsc:
			return a.Amount < b.Amount
		case access.SortPriceDesc:
			return a.Amount > b.Amount
		case access.SortDateAsc:
			return a.PaidAt.Before(b.PaidAt)
		default:
			return a.PaidAt.After(b.PaidAt)
		}
	})
	return Paginate(out, params.Page, params.Limit)
}

func FilterUsers(items []*entity.User, q UserQuery) ([]*entity.User, int64) {
	out := make([]*entity.User, 0, len(items))
	for _, u := range items {
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		if q.Search != "" && !containsFold(u.Email, q.Search) && !containsFold(u.DisplayName, q.Search) {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	if q.Offset >= len(out) {
		return []*entity.User{}, total
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, total
}

// PriceHistorySince returns points dated on or after since, oldest first.
func PriceHistorySince(history []entity.PricePoint, since string) []entity.PricePoint {
	out := make([]entity.PricePoint, 0, len(history))
	for _, pt := range history {
		if since == "" || pt.Date >= since {
			out = append(out, pt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Today is the calendar date used for new products and price points.
func Today(now time.Time) string {
	return now.Format(entity.DateLayout)
}
