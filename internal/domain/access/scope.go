package access

import (
	"net/url"
	"strconv"
	"strings"

	"bazaarbondhu/internal/domain/entity"
)

type Resource string

const (
	ResourceProducts       Resource = "products"
	ResourceAdvertisements Resource = "advertisements"
	ResourceOrders         Resource = "orders"
)

type ListView string

const (
	ViewCatalog ListView = "catalog"
	ViewMine    ListView = "mine"
	ViewAll     ListView = "all"
)

func ParseView(s string) ListView {
	switch ListView(strings.ToLower(strings.TrimSpace(s))) {
	case ViewMine:
		return ViewMine
	case ViewAll:
		return ViewAll
	default:
		return ViewCatalog
	}
}

type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortDateDesc  SortKey = "date_desc"
	SortDateAsc   SortKey = "date_asc"
)

// ParseSort drops anything outside the known sort keys.
func ParseSort(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortPriceAsc, SortPriceDesc, SortDateDesc, SortDateAsc:
		return k
	}
	return ""
}

// Filters is what a caller may ask for. Owner fields in it are honoured only
// for admins.
type Filters struct {
	VendorEmail string `json:"vendorEmail,omitempty"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Sort        string `json:"sort,omitempty"`
	Search      string `json:"search,omitempty"`
}

// Empty reports whether applying f would change nothing.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// Merge overlays the non-empty fields of patch onto f.
func (f Filters) Merge(patch Filters) Filters {
	if patch.VendorEmail != "" {
		f.VendorEmail = patch.VendorEmail
	}
	if patch.Email != "" {
		f.Email = patch.Email
	}
	if patch.Status != "" {
		f.Status = patch.Status
	}
	if patch.StartDate != "" {
		f.StartDate = patch.StartDate
	}
	if patch.EndDate != "" {
		f.EndDate = patch.EndDate
	}
	if patch.Sort != "" {
		f.Sort = patch.Sort
	}
	if patch.Search != "" {
		f.Search = patch.Search
	}
	return f
}

// FilterField names one field of Filters.
type FilterField string

const (
	FieldVendorEmail FilterField = "vendorEmail"
	FieldEmail       FilterField = "email"
	FieldStatus      FilterField = "status"
	FieldStartDate   FilterField = "startDate"
	FieldEndDate     FilterField = "endDate"
	FieldSort        FilterField = "sort"
	FieldSearch      FilterField = "search"
)

// Clear returns f with the named fields emptied. Unknown names are ignored.
func (f Filters) Clear(fields ...FilterField) Filters {
	for _, field := range fields {
		switch field {
		case FieldVendorEmail:
			f.VendorEmail = ""
		case FieldEmail:
			f.Email = ""
		case FieldStatus:
			f.Status = ""
		case FieldStartDate:
			f.StartDate = ""
		case FieldEndDate:
			f.EndDate = ""
		case FieldSort:
			f.Sort = ""
		case FieldSearch:
			f.Search = ""
		}
	}
	return f
}

// ListParams is the final, scoped query sent to a list endpoint.
type ListParams struct {
	Resource    Resource
	View        ListView
	VendorEmail string
	Email       string
	Status      entity.ModerationStatus
	StartDate   string
	EndDate     string
	Sort        SortKey
	Search      string
	Page        int
	Limit       int
}

type scopeRule struct {
	role        entity.Role
	inject      func(p *ListParams, id *Identity)
	forceStatus entity.ModerationStatus
}

func injectVendor(p *ListParams, id *Identity) { p.VendorEmail = id.Email }
func injectBuyer(p *ListParams, id *Identity)  { p.Email = id.Email }

var scopeRules = map[Resource]map[ListView]scopeRule{
	ResourceProducts: {
		ViewCatalog: {forceStatus: entity.StatusApproved},
		ViewMine:    {role: entity.RoleVendor, inject: injectVendor},
		ViewAll:     {role: entity.RoleAdmin},
	},
	ResourceAdvertisements: {
		ViewCatalog: {forceStatus: entity.StatusApproved},
		ViewMine:    {role: entity.RoleVendor, inject: injectVendor},
		ViewAll:     {role: entity.RoleAdmin},
	},
	ResourceOrders: {
		ViewMine: {role: entity.RoleUser, inject: injectBuyer},
		ViewAll:  {role: entity.RoleAdmin},
	},
}

// BuildListParams scopes f for the caller. In owner-scoped views the owner
// field always comes from id and cannot be overridden by f; catalog views
// are pinned to approved items; only admins see everything unfiltered.
func BuildListParams(resource Resource, view ListView, role entity.Role, id *Identity, f Filters) (ListParams, error) {
	rules, ok := scopeRules[resource]
	if !ok {
		return ListParams{}, ErrUnsupportedView
	}
	rule, ok := rules[view]
	if !ok {
		return ListParams{}, ErrUnsupportedView
	}

	if rule.role != "" {
		if !id.Present() {
			return ListParams{}, ErrUnauthenticated
		}
		if role != rule.role {
			return ListParams{}, ErrScopeForbidden
		}
	}

	p := ListParams{
		Resource:    resource,
		View:        view,
		VendorEmail: strings.TrimSpace(f.VendorEmail),
		Email:       strings.TrimSpace(f.Email),
		Status:      entity.ModerationStatus(strings.ToLower(strings.TrimSpace(f.Status))),
		StartDate:   strings.TrimSpace(f.StartDate),
		EndDate:     strings.TrimSpace(f.EndDate),
		Sort:        ParseSort(f.Sort),
		Search:      strings.TrimSpace(f.Search),
	}
	if p.Status != "" && !p.Status.Valid() {
		p.Status = ""
	}

	if view != ViewAll {
		// owner filters from the caller only apply to the admin view
		if resource == ResourceOrders {
			p.VendorEmail = ""
		}
		p.Email = ""
	}
	if rule.inject != nil {
		rule.inject(&p, id)
	}
	if rule.forceStatus != "" {
		p.Status = rule.forceStatus
	}
	return p, nil
}

// WithPage returns a copy of p pointing at page/limit.
func (p ListParams) WithPage(page, limit int) ListParams {
	p.Page = page
	p.Limit = limit
	return p
}

// Values encodes p as query parameters; zero fields are omitted.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("view", string(p.View))
	set("vendorEmail", p.VendorEmail)
	set("email", p.Email)
	set("status", string(p.Status))
	set("startDate", p.StartDate)
	set("endDate", p.EndDate)
	set("sort", string(p.Sort))
	set("search", p.Search)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// ParseFilters reads caller filters from query parameters.
func ParseFilters(q url.Values) Filters {
	return Filters{
		VendorEmail: q.Get("vendorEmail"),
		Email:       q.Get("email"),
		Status:      q.Get("status"),
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		Sort:        q.Get("sort"),
		Search:      q.Get("search"),
	}
}
