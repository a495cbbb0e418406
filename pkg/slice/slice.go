// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice adds the generic helpers that authority flattening needs on
// top of the standard [slices] package. A nil input always yields nil.
package slice

// Map applies transform to every element, preserving order.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}
	out := make([]U, 0, len(input))
	for _, item := range input {
		out = append(out, transform(item))
	}
	return out
}

// Filter keeps the elements that satisfy keep.
func Filter[T any](input []T, keep func(T) bool) []T {
	if input == nil {
		return nil
	}
	out := make([]T, 0, len(input))
	for _, item := range input {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Unique keeps the first occurrence of each element.
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}
	seen := make(map[T]bool, len(input))
	return Filter(input, func(item T) bool {
		if seen[item] {
			return false
		}
		seen[item] = true
		return true
	})
}
