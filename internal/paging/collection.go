package paging

import (
	"context"
	"sync"

	"movie-discovery-service/internal/model"
)

// GenericErrorText is shown when no better error text is available.
const GenericErrorText = "An unexpected error occurred."

// Source fetches one page of movies for a filter.
type Source interface {
	FetchPage(ctx context.Context, filter Filter, page int) (*model.MoviePage, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, filter Filter, page int) (*model.MoviePage, error)

// FetchPage calls f.
func (f SourceFunc) FetchPage(ctx context.Context, filter Filter, page int) (*model.MoviePage, error) {
	return f(ctx, filter, page)
}

// Request identifies one issued fetch. Only the most recently issued request
// of a collection may change its items.
type Request struct {
	Token  uint64
	Filter Filter
	Page   int
}

// State is a point-in-time copy of a collection.
type State struct {
	Filter       Filter
	Page         int
	TotalPages   int
	TotalResults int
	Items        []model.Movie
	Loading      bool
	Err          string
}

// Markers returns the page-navigation window for the state.
func (s State) Markers() []Marker {
	return Pages(s.TotalPages, s.Page)
}

// HasPrev reports whether a previous page exists.
func (s State) HasPrev() bool { return s.Page > 1 }

// HasNext reports whether a next page exists.
func (s State) HasNext() bool { return s.Page < s.TotalPages }

// Option configures a Collection.
type Option func(*Collection)

// RequireFilter makes an empty filter clear the items without fetching.
// Search views use it so an empty query issues no request.
func RequireFilter() Option {
	return func(c *Collection) {
		c.requireFilter = true
	}
}

// WithErrorText sets how fetch errors are turned into display text.
func WithErrorText(fn func(error) string) Option {
	return func(c *Collection) {
		if fn != nil {
			c.errorText = fn
		}
	}
}

// WithFilter sets the initial filter without fetching.
func WithFilter(f Filter) Option {
	return func(c *Collection) {
		c.filter = f.Normalize()
	}
}

// Collection is the page cursor and item list of one list view.
//
// Navigation methods (SelectFilter, Advance, Retreat, GoTo, Reload) update the
// cursor, mark the collection loading, and return the Request to execute. The
// caller runs it with Fetch, or fetches from Source itself and hands the
// result to Complete. The boolean result is false when no request is needed.
type Collection struct {
	mu sync.Mutex

	source        Source
	requireFilter bool
	errorText     func(error) string

	filter       Filter
	page         int
	totalPages   int
	totalResults int
	items        []model.Movie
	loading      bool
	errText      string
	latest       uint64
}

// NewCollection creates a collection positioned on page 1 of 1.
func NewCollection(source Source, opts ...Option) *Collection {
	c := &Collection{
		source:     source,
		errorText:  func(error) string { return GenericErrorText },
		page:       1,
		totalPages: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source returns the collection's page source.
func (c *Collection) Source() Source {
	return c.source
}

// SelectFilter replaces the filter and resets to page 1.
func (c *Collection) SelectFilter(f Filter) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter = f.Normalize()
	c.page = 1
	c.totalPages = 1
	return c.beginLocked()
}

// Advance moves to the next page, saturating at the last page.
func (c *Collection) Advance() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = min(c.page+1, c.totalPages)
	return c.beginLocked()
}

// Retreat moves to the previous page, saturating at page 1.
func (c *Collection) Retreat() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = max(c.page-1, 1)
	return c.beginLocked()
}

// GoTo jumps to page p. Before the first fetch the page count is unknown, so
// only the lower bound is enforced; later jumps are clamped to the known total.
func (c *Collection) GoTo(p int) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.latest == 0 {
		c.page = max(p, 1)
	} else {
		c.page = clamp(p, 1, c.totalPages)
	}
	return c.beginLocked()
}

// Reload re-issues the current filter and page.
func (c *Collection) Reload() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.beginLocked()
}

func (c *Collection) beginLocked() (Request, bool) {
	c.latest++
	c.errText = ""

	if c.requireFilter && c.filter.IsEmpty() {
		c.items = nil
		c.page = 1
		c.totalPages = 1
		c.totalResults = 0
		c.loading = false
		return Request{}, false
	}

	c.loading = true
	return Request{Token: c.latest, Filter: c.filter, Page: c.page}, true
}

// Complete applies the outcome of req. It reports false and changes nothing
// when a newer request has been issued since req.
func (c *Collection) Complete(req Request, page *model.MoviePage, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.Token != c.latest {
		return false
	}
	c.loading = false

	if err != nil {
		c.items = nil
		c.errText = c.errorText(err)
		return true
	}
	if page == nil {
		page = &model.MoviePage{}
	}

	c.items = page.Results
	c.totalResults = page.TotalResults
	c.totalPages = max(page.TotalPages, 1)
	if c.page > c.totalPages {
		c.page = c.totalPages
	}
	return true
}

// Fetch executes req against the source and applies the result. The fetch
// error is returned even when req turned out to be stale.
func (c *Collection) Fetch(ctx context.Context, req Request) error {
	page, err := c.source.FetchPage(ctx, req.Filter, req.Page)
	c.Complete(req, page, err)
	return err
}

// Load sets the filter and page and fetches synchronously. Changing the
// filter always starts from page 1, so page is only honored when the filter
// is unchanged or the collection has never loaded.
func (c *Collection) Load(ctx context.Context, f Filter, page int) error {
	c.mu.Lock()
	f = f.Normalize()
	if c.latest != 0 && !c.filter.Equal(f) {
		page = 1
	}
	c.filter = f
	c.page = max(page, 1)
	req, ok := c.beginLocked()
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Fetch(ctx, req)
}

// Snapshot returns a copy of the current state.
func (c *Collection) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.Movie, len(c.items))
	copy(items, c.items)

	return State{
		Filter:       c.filter,
		Page:         c.page,
		TotalPages:   c.totalPages,
		TotalResults: c.totalResults,
		Items:        items,
		Loading:      c.loading,
		Err:          c.errText,
	}
}
