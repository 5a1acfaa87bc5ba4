// Package pagination turns filtered, ordered queries into pages with
// navigation metadata.
package pagination

import (
	"math"
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Params is a normalized page request.
type Params struct {
	Page    int
	PerPage int
}

// NewParams clamps page to at least 1 and per-page to [1, MaxPerPage],
// substituting defaults for non-positive values.
func NewParams(page, perPage int) Params {
	return NewParamsWithLimits(page, perPage, DefaultPerPage, MaxPerPage)
}

func NewParamsWithLimits(page, perPage, defaultPerPage, maxPerPage int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	// keeps (page-1)*perPage representable
	if limit := math.MaxInt / perPage; page > limit {
		page = limit
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset saturates at math.MaxInt so an oversized page never wraps to a
// negative offset.
func (p Params) Offset() int {
	if p.Page < 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// Scope applies offset and limit to a gorm query.
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}

// Page is one page of results. Items is never nil so it serializes as [].
type Page[T any] struct {
	Items   []T    `json:"items"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	Pages   int    `json:"pages"`
	PerPage int    `json:"per_page"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
	NextURL string `json:"next_url,omitempty"`
	PrevURL string `json:"prev_url,omitempty"`
}

// New builds page metadata for items fetched with p out of total matches.
// A page past the end is valid and simply carries no items.
func New[T any](items []T, total int64, p Params) *Page[T] {
	if items == nil {
		items = []T{}
	}

	pages := 0
	if total > 0 {
		pages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}

	return &Page[T]{
		Items:   items,
		Total:   total,
		Page:    p.Page,
		Pages:   pages,
		PerPage: p.PerPage,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1 && pages > 0,
	}
}

// Map converts page items while keeping the metadata.
func Map[T, U any](page *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}
	return &Page[U]{
		Items:   items,
		Total:   page.Total,
		Page:    page.Page,
		Pages:   page.Pages,
		PerPage: page.PerPage,
		HasNext: page.HasNext,
		HasPrev: page.HasPrev,
		NextURL: page.NextURL,
		PrevURL: page.PrevURL,
	}
}

// WithLinks resolves next/prev URLs from the request URL, keeping every
// query parameter and replacing only page.
func (pg *Page[T]) WithLinks(requestURL *url.URL) *Page[T] {
	if requestURL == nil {
		return pg
	}
	if pg.HasNext {
		pg.NextURL = pageURL(requestURL, pg.Page+1)
	}
	if pg.HasPrev {
		prev := pg.Page - 1
		if prev > pg.Pages {
			prev = pg.Pages
		}
		pg.PrevURL = pageURL(requestURL, prev)
	}
	return pg
}

func pageURL(u *url.URL, page int) string {
	next := *u
	query := next.Query()
	query.Set("page", strconv.Itoa(page))
	next.RawQuery = query.Encode()
	return next.String()
}
