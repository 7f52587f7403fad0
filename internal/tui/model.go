// Package tui is a terminal movie browser built on the paged collections.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"
)

// Catalog is the part of the TMDB service the browser needs.
type Catalog interface {
	ListSource(kind service.ListKind) paging.Source
	BrowseSource() paging.Source
	Genres(ctx context.Context) ([]model.Genre, error)
	Detail(ctx context.Context, id int) (*service.Detail, error)
	Images() *service.Images
}

type tab int

const (
	tabPopular tab = iota
	tabNowPlaying
	tabUpcoming
	tabDiscover
	tabSearch
	tabCount
)

var tabTitles = [tabCount]string{"Popular", "Now Playing", "Upcoming", "Discover", "Search"}

type mode int

const (
	modeList mode = iota
	modeGenres
	modeSearch
	modeDetail
)

// Start selects what the browser shows first.
type Start struct {
	List   service.ListKind
	Genres []int
	Query  string
}

// pageMsg carries a fetched page back to the collection that asked for it.
type pageMsg struct {
	tab  tab
	req  paging.Request
	page *model.MoviePage
	err  error
}

type genresMsg struct {
	genres []model.Genre
	err    error
}

type detailMsg struct {
	seq    uint64
	detail *service.Detail
	err    error
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	ctx     context.Context
	catalog Catalog

	cols    [tabCount]*paging.Collection
	started [tabCount]bool
	active  tab
	cursor  int
	mode    mode

	spinner spinner.Model
	search  textinput.Model

	genres      []model.Genre
	genreErr    string
	genreCursor int
	picked      map[int]bool

	detail    *service.Detail
	detailErr string
	detailSeq uint64

	width  int
	height int
}

// New creates the browser model.
func New(ctx context.Context, catalog Catalog, start Start) Model {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 200
	ti.Prompt = "/ "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo

	m := Model{
		ctx:     ctx,
		catalog: catalog,
		spinner: s,
		search:  ti,
		picked:  map[int]bool{},
	}

	m.cols[tabPopular] = service.NewCollection(catalog.ListSource(service.ListPopular))
	m.cols[tabNowPlaying] = service.NewCollection(catalog.ListSource(service.ListNowPlaying))
	m.cols[tabUpcoming] = service.NewCollection(catalog.ListSource(service.ListUpcoming))
	m.cols[tabDiscover] = service.NewCollection(catalog.BrowseSource())
	m.cols[tabSearch] = service.NewCollection(catalog.BrowseSource(), paging.RequireFilter())

	switch {
	case strings.TrimSpace(start.Query) != "":
		m.active = tabSearch
		m.search.SetValue(strings.TrimSpace(start.Query))
		m.cols[tabSearch] = service.NewCollection(catalog.BrowseSource(),
			paging.RequireFilter(), paging.WithFilter(paging.QueryFilter(start.Query)))
	case len(start.Genres) > 0:
		m.active = tabDiscover
		for _, id := range start.Genres {
			m.picked[id] = true
		}
		m.cols[tabDiscover] = service.NewCollection(catalog.BrowseSource(),
			paging.WithFilter(paging.GenreFilter(start.Genres...)))
	case start.List == service.ListNowPlaying:
		m.active = tabNowPlaying
	case start.List == service.ListUpcoming:
		m.active = tabUpcoming
	}
	m.started[m.active] = true

	return m
}

// Init fetches the first page of the starting tab.
func (m Model) Init() tea.Cmd {
	req, ok := m.cols[m.active].Reload()
	return tea.Batch(m.fetch(m.active, req, ok), m.spinner.Tick)
}

// Update handles incoming messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeGenres:
			return m.updateGenres(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}

	case pageMsg:
		if !m.cols[msg.tab].Complete(msg.req, msg.page, msg.err) {
			log.Debug().Uint64("token", msg.req.Token).Msg("Dropped stale page")
			return m, nil
		}
		if msg.err != nil {
			log.Warn().Err(msg.err).Int("page", msg.req.Page).Msg("Page fetch failed")
		}
		if msg.tab == m.active {
			m.cursor = 0
		}
		return m, nil

	case genresMsg:
		if msg.err != nil {
			m.genreErr = service.ErrorText(msg.err)
			return m, nil
		}
		m.genres = msg.genres
		m.genreErr = ""
		return m, nil

	case detailMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		if msg.err != nil {
			m.detailErr = service.ErrorText(msg.err)
			return m, nil
		}
		m.detail = msg.detail
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	col := m.cols[m.active]
	items := col.Snapshot().Items

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "right", "n":
		req, ok := col.Advance()
		return m, m.fetch(m.active, req, ok)
	case "left", "p":
		req, ok := col.Retreat()
		return m, m.fetch(m.active, req, ok)
	case "1":
		return m.switchTab(tabPopular)
	case "2":
		return m.switchTab(tabNowPlaying)
	case "3":
		return m.switchTab(tabUpcoming)
	case "r":
		req, ok := col.Reload()
		return m, m.fetch(m.active, req, ok)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "g":
		m.mode = modeGenres
		if m.genres == nil {
			return m, m.loadGenres()
		}
	case "/":
		m.mode = modeSearch
		m.search.SetValue(col.Snapshot().Filter.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "enter":
		if m.cursor < len(items) {
			return m.openDetail(items[m.cursor].ID)
		}
	}
	return m, nil
}

func (m Model) switchTab(t tab) (tea.Model, tea.Cmd) {
	m.active = t
	m.cursor = 0
	if m.started[t] {
		return m, nil
	}
	m.started[t] = true
	req, ok := m.cols[t].Reload()
	return m, m.fetch(t, req, ok)
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "enter":
		m.mode = modeList
		m.search.Blur()
		m.active = tabSearch
		m.started[tabSearch] = true
		m.cursor = 0
		req, ok := m.cols[tabSearch].SelectFilter(paging.QueryFilter(m.search.Value()))
		return m, m.fetch(tabSearch, req, ok)
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateGenres(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
	case "up", "k":
		if m.genreCursor > 0 {
			m.genreCursor--
		}
	case "down", "j":
		if m.genreCursor < len(m.genres)-1 {
			m.genreCursor++
		}
	case " ", "space":
		if m.genreCursor < len(m.genres) {
			id := m.genres[m.genreCursor].ID
			m.picked[id] = !m.picked[id]
		}
	case "r":
		if m.genreErr != "" {
			return m, m.loadGenres()
		}
	case "enter":
		var ids []int
		for _, g := range m.genres {
			if m.picked[g.ID] {
				ids = append(ids, g.ID)
			}
		}
		m.mode = modeList
		m.active = tabDiscover
		m.started[tabDiscover] = true
		m.cursor = 0
		req, ok := m.cols[tabDiscover].SelectFilter(paging.GenreFilter(ids...))
		return m, m.fetch(tabDiscover, req, ok)
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.mode = modeList
		m.detail = nil
		m.detailErr = ""
		m.detailSeq++ // 丢弃仍在进行的请求
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	m.mode = modeDetail
	m.detail = nil
	m.detailErr = ""
	m.detailSeq++
	seq := m.detailSeq

	ctx, catalog := m.ctx, m.catalog
	return m, func() tea.Msg {
		d, err := catalog.Detail(ctx, id)
		return detailMsg{seq: seq, detail: d, err: err}
	}
}

// fetch runs req in the background; the result returns as a pageMsg.
func (m Model) fetch(t tab, req paging.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	ctx, source := m.ctx, m.cols[t].Source()
	return func() tea.Msg {
		page, err := source.FetchPage(ctx, req.Filter, req.Page)
		return pageMsg{tab: t, req: req, page: page, err: err}
	}
}

func (m Model) loadGenres() tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		genres, err := catalog.Genres(ctx)
		return genresMsg{genres: genres, err: err}
	}
}
