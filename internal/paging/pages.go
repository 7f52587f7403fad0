// Package paging holds the page cursor shared by every movie list view: the
// bounded page-marker window rendered by navigation controls, the filter
// context, and the Collection state machine that loads one page at a time.
package paging

import (
	"encoding/json"
	"strconv"
)

// EllipsisText is how an ellipsis marker is rendered.
const EllipsisText = "..."

// Marker is one entry of a page-navigation sequence: either a page number or
// an inert ellipsis meaning more pages exist past the window.
type Marker struct {
	Page     int
	Ellipsis bool
}

func (m Marker) String() string {
	if m.Ellipsis {
		return EllipsisText
	}
	return strconv.Itoa(m.Page)
}

// MarshalJSON renders page markers as numbers and the ellipsis as a string.
func (m Marker) MarshalJSON() ([]byte, error) {
	if m.Ellipsis {
		return json.Marshal(EllipsisText)
	}
	return json.Marshal(m.Page)
}

// Pages returns the markers for a narrow window around current: the previous
// page, the current page, the next page, and an ellipsis when more than one
// page lies beyond the next. The result never has more than four entries.
// Out-of-range input is clamped to 1 <= current <= total.
func Pages(total, current int) []Marker {
	if total < 1 {
		total = 1
	}
	current = clamp(current, 1, total)

	markers := make([]Marker, 0, 4)
	if current > 1 {
		markers = append(markers, Marker{Page: current - 1})
	}
	markers = append(markers, Marker{Page: current})
	if current < total {
		markers = append(markers, Marker{Page: current + 1})
	}
	if current < total-2 {
		markers = append(markers, Marker{Ellipsis: true})
	}
	return markers
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
