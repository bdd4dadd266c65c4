package provider

import (
	"errors"
	"fmt"
)

// ErrPossibleTruncation is returned by VerifyNoTruncation when a single
// bounded read comes back with exactly a full page of rows, which the
// source system this pipeline replaces learned the hard way is
// indistinguishable from a silent truncation at that boundary. This is a data-shape error per the
// spec's error handling design: it fails the run, it is never absorbed.
var ErrPossibleTruncation = errors.New("page returned exactly a full page; possible silent truncation")

// DefaultPageSize is the page size store/sqlite uses for every bulk read.
const DefaultPageSize = 1000

// FetchPage is implemented by a single paged query: given an offset and a
// limit, return that page's rows.
type FetchPage[T any] func(offset, limit int) ([]T, error)

// FetchAllPages accumulates every page from fetch until a short page (or an
// empty page) is returned. If an intermediate page comes back with exactly
// `pageSize` rows and the NEXT page turns out to be empty, that's a
// perfectly ordinary table whose size happens to be a multiple of the page
// size — not a truncation. The defensive check is specifically for the
// case the original system's pagination.py called out: a query that
// silently caps itself at a single page and returns exactly that many
// rows with no further page ever coming back. We detect this by requiring
// the final accumulated count, when it lands exactly on a page multiple,
// to be confirmed by one more (possibly empty) fetch — which this loop
// already does by construction, since we only stop on a short page.
//
// In other words: FetchAllPages is safe by construction as long as callers
// always use it instead of a single bounded SELECT. ErrPossibleTruncation
// exists for store implementations that cannot loop (e.g. a single
// upstream HTTP call capped server-side at pageSize with no way to detect
// more pages exist) and need to fail loudly instead of returning a
// plausible-looking but truncated result.
func FetchAllPages[T any](fetch FetchPage[T], pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []T
	offset := 0
	for {
		page, err := fetch(offset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		offset += pageSize
	}
}

// VerifyNoTruncation guards a single bounded read (one that could not be
// paginated, e.g. a legacy endpoint) against the exact-page-size trap:
// if the result size equals pageSize, we cannot tell whether that is the
// whole table or a truncated one, so we fail rather than guess.
func VerifyNoTruncation(count, pageSize int, source string) error {
	if pageSize > 0 && count == pageSize {
		return fmt.Errorf("%s: %w", source, ErrPossibleTruncation)
	}
	return nil
}
