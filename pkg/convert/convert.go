// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant parsing for query parameters and path
segments.

Do not use this package if distinguishing between malformed data and zero values
is important in your domain logic; use [strconv] directly instead.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt64 parses a decimal int64, returning 0 for empty or malformed input.
// Database identity columns start at 1, so 0 doubles as "invalid id".
func ToInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ToOptionalBool parses "true"/"false"/"1"/"0". It returns nil when s is empty
// or malformed, letting callers distinguish "not filtered" from "false".
func ToOptionalBool(s string) *bool {
	if s == "" {
		return nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}
