// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query splits comma-separated values from query strings and
// environment variables.
package query

import "strings"

// StringSlice splits val on commas, trimming blanks and dropping empty items.
// It returns nil for an empty input.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
