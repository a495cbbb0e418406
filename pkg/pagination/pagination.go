// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads page windows from query strings and describes
// them back to clients.
//
// Pages are 1-indexed. Bad input never fails a request: it falls back to the
// defaults, and oversized limits are capped at [MaxLimit].
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is one page window.
type Params struct {
	Page  int
	Limit int
}

// Offset is the SQL OFFSET for the window.
func (p Params) Offset() int {
	return max(p.Page-1, 0) * p.Limit
}

// Meta describes the window for a result set of total rows.
func (p Params) Meta(total int) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
	}
}

// Meta is the "meta" block of a listing response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// FromRequest reads "page" and "limit" from the request URL.
func FromRequest(request *http.Request) Params {
	return FromQuery(request.URL.Query())
}

// FromQuery reads "page" and "limit" from values.
func FromQuery(values url.Values) Params {
	page := positive(values.Get("page"), DefaultPage)
	limit := min(positive(values.Get("limit"), DefaultLimit), MaxLimit)
	return Params{Page: page, Limit: limit}
}

// positive parses raw as a strictly positive int, or returns fallback.
func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
