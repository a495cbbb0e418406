// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-auth/pkg/pagination"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"page=-2&limit=0", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"limit=5000", pagination.Params{Page: 1, Limit: pagination.MaxLimit}},
		{"page=abc", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, pagination.FromQuery(values))
		})
	}

	fromRequest := pagination.FromRequest(httptest.NewRequest("GET", "/roles?page=2&limit=5", nil))
	assert.Equal(t, pagination.Params{Page: 2, Limit: 5}, fromRequest)
}

/*
TestParams_Meta covers the page count and the has_next flag at both ends.
*/
func TestParams_Meta(t *testing.T) {
	first := pagination.Params{Page: 1, Limit: 20}.Meta(41)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasNext)

	last := pagination.Params{Page: 3, Limit: 20}.Meta(41)
	assert.False(t, last.HasNext)

	empty := pagination.Params{Page: 1, Limit: 20}.Meta(0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)

	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
	assert.Zero(t, pagination.Params{Page: 0, Limit: 20}.Offset())
}
