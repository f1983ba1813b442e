// Package tools holds small standalone helpers: string capitalization,
// debouncing, map extension, slice merging, type names, once and poll.
package tools

import (
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter of every space separated word
func Capitalize(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CapitalizeAll capitalizes every string of texts into a new slice
func CapitalizeAll(texts []string) []string {
	result := make([]string, len(texts))
	for i, t := range texts {
		result[i] = Capitalize(t)
	}
	return result
}

// Debounce returns a function that delays fn until wait has passed without
// another call. The argument of the last call wins. With immediate, fn runs
// on the leading edge instead and further calls inside the window are
// dropped.
func Debounce[T any](fn func(T), wait time.Duration, immediate bool) func(T) {
	var (
		mu    sync.Mutex
		timer *time.Timer
		last  T
		gen   uint64
	)

	return func(arg T) {
		mu.Lock()
		callNow := immediate && timer == nil
		last = arg
		gen++
		current := gen
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() {
			mu.Lock()
			// a later call already re-armed the window
			if current != gen {
				mu.Unlock()
				return
			}
			timer = nil
			pending := last
			mu.Unlock()

			if !immediate {
				fn(pending)
			}
		})
		mu.Unlock()

		if callNow {
			fn(arg)
		}
	}
}

// Once returns a function that calls fn on first use and then keeps
// returning that first result
func Once[T any](fn func() T) func() T {
	return sync.OnceValue(fn)
}

// Merge appends second to first. With unique, values already in first
// (including ones appended earlier in the same call) are skipped.
func Merge[T comparable](first, second []T, unique bool) []T {
	if !unique {
		return append(first, second...)
	}

	seen := make(map[T]struct{}, len(first)+len(second))
	for _, v := range first {
		seen[v] = struct{}{}
	}
	for _, v := range second {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		first = append(first, v)
	}
	return first
}

// Noop does nothing
func Noop() {}

// Identity returns its argument
func Identity[T any](v T) T {
	return v
}
