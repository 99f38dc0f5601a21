// Package models holds the types shared by the base repository layer (pagination).
package models

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
)

// PaginateResult is one page of items plus the metadata clients need to navigate.
type PaginateResult[T any] struct {
	Items []T `json:"items" bson:"items"`
	// Total number of matching items across all pages
	Total       int64 `json:"total" bson:"total"`
	Page        int64 `json:"page" bson:"page"`
	Limit       int64 `json:"limit" bson:"limit"`
	ItemCount   int64 `json:"itemCount" bson:"itemCount"`
	TotalPages  int64 `json:"totalPages" bson:"totalPages"`
	HasNextPage bool  `json:"hasNextPage" bson:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage" bson:"hasPrevPage"`
}

// Paging is a normalised page request.
type Paging struct {
	Page  int64
	Limit int64
}

// Skip is the number of items before the page.
func (p Paging) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// NewPaging clamps page and limit: values below 1 fall back to the defaults. Large limits
// are kept as requested so totalPages always matches the limit the client asked for.
func NewPaging(page, limit int64) Paging {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return Paging{Page: page, Limit: limit}
}

// ParsePaging reads the raw page and limit query values; non-numeric values fall back to
// the defaults.
func ParsePaging(rawPage, rawLimit string) Paging {
	return NewPaging(parseInt(rawPage), parseInt(rawLimit))
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// NewPaginateResult builds the page metadata for items out of total.
func NewPaginateResult[T any](items []T, total int64, paging Paging) *PaginateResult[T] {
	if items == nil {
		items = []T{}
	}

	var totalPages int64
	if total > 0 {
		totalPages = (total + paging.Limit - 1) / paging.Limit
	}

	return &PaginateResult[T]{
		Items:       items,
		Total:       total,
		Page:        paging.Page,
		Limit:       paging.Limit,
		ItemCount:   int64(len(items)),
		TotalPages:  totalPages,
		HasNextPage: paging.Page < totalPages,
		HasPrevPage: paging.Page > 1,
	}
}
