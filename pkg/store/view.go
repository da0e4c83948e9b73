package store

import (
	"strings"

	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// Page is one derived slice of the filtered collection. It is computed fresh
// from its inputs on every call; nothing here is cached.
type Page struct {
	Items    []resource.Record
	Total    int
	Page     int
	PageSize int
}

// Filter returns the items whose searchable fields case-insensitively contain
// the query, preserving server order. An empty query matches everything.
func Filter(items []resource.Record, fields []string, query string) []resource.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]resource.Record{}, items...)
	}

	out := make([]resource.Record, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(item.StringValue(field)), query) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Paginate slices [page*pageSize, page*pageSize+pageSize) out of items. Pages
// beyond the end are empty, never an error.
func Paginate(items []resource.Record, page, pageSize int) []resource.Record {
	if page < 0 || pageSize <= 0 {
		return []resource.Record{}
	}
	start := page * pageSize
	if start >= len(items) {
		return []resource.Record{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return append([]resource.Record{}, items[start:end]...)
}

// View composes Filter and Paginate into the grid's page. Total counts the
// filtered set, not the page.
func View(items []resource.Record, fields []string, query string, page, pageSize int) Page {
	filtered := Filter(items, fields, query)
	return Page{
		Items:    Paginate(filtered, page, pageSize),
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	}
}
