package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"
)

type fetchCall struct {
	source string
	filter paging.Filter
	page   int
}

type fakeCatalog struct {
	mu        sync.Mutex
	calls     []fetchCall
	failPages map[int]error
	detail    *service.Detail
}

func (f *fakeCatalog) source(name string) paging.Source {
	return paging.SourceFunc(func(_ context.Context, filter paging.Filter, page int) (*model.MoviePage, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, fetchCall{source: name, filter: filter, page: page})
		if err := f.failPages[page]; err != nil {
			return nil, err
		}
		return &model.MoviePage{
			Page: page,
			Results: []model.Movie{
				{ID: page*10 + 1, Title: fmt.Sprintf("%s p%d a", name, page), ReleaseDate: "1999-03-31"},
				{ID: page*10 + 2, Title: fmt.Sprintf("%s p%d b", name, page)},
			},
			TotalPages:   5,
			TotalResults: 100,
		}, nil
	})
}

func (f *fakeCatalog) ListSource(kind service.ListKind) paging.Source { return f.source(string(kind)) }
func (f *fakeCatalog) BrowseSource() paging.Source                    { return f.source("browse") }

func (f *fakeCatalog) Genres(context.Context) ([]model.Genre, error) {
	return []model.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, nil
}

func (f *fakeCatalog) Detail(_ context.Context, id int) (*service.Detail, error) {
	if f.detail == nil {
		return nil, errors.New("boom")
	}
	return f.detail, nil
}

func (f *fakeCatalog) Images() *service.Images {
	return service.NewImages("https://image.test/t/p", "")
}

func (f *fakeCatalog) lastCall(t *testing.T) fetchCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// results runs cmd and returns the browser messages it produces, skipping
// spinner ticks and other UI housekeeping.
func results(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, results(c)...)
		}
		return out
	case pageMsg, genresMsg, detailMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(Model)
	require.True(t, ok)
	return bm, cmd
}

// press sends a key and feeds every fetch result straight back in.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	m, cmd := update(t, m, key(k))
	for _, msg := range results(cmd) {
		m, _ = update(t, m, msg)
	}
	return m
}

func started(t *testing.T, catalog *fakeCatalog, start Start) Model {
	t.Helper()
	m := New(context.Background(), catalog, start)
	for _, msg := range results(m.Init()) {
		m, _ = update(t, m, msg)
	}
	return m
}

func TestInitLoadsPopular(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	assert.Equal(t, fetchCall{source: "popular", page: 1}, catalog.lastCall(t))

	state := m.cols[tabPopular].Snapshot()
	assert.False(t, state.Loading)
	assert.Len(t, state.Items, 2)
	assert.Equal(t, 5, state.TotalPages)
	assert.Contains(t, m.View(), "popular p1 a")
}

func TestStartOptions(t *testing.T) {
	catalog := &fakeCatalog{}

	m := started(t, catalog, Start{Query: "  matrix "})
	assert.Equal(t, tabSearch, m.active)
	assert.Equal(t, fetchCall{source: "browse", filter: paging.QueryFilter("matrix"), page: 1}, catalog.lastCall(t))

	m = started(t, catalog, Start{Genres: []int{35, 28}})
	assert.Equal(t, tabDiscover, m.active)
	assert.Equal(t, []int{28, 35}, catalog.lastCall(t).filter.GenreIDs)

	m = started(t, catalog, Start{List: service.ListUpcoming})
	assert.Equal(t, tabUpcoming, m.active)
	assert.Equal(t, "upcoming", catalog.lastCall(t).source)
}

func TestAdvanceAndRetreat(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m = press(t, m, "n")
	assert.Equal(t, 2, catalog.lastCall(t).page)
	m = press(t, m, "right")
	assert.Equal(t, 3, m.cols[tabPopular].Snapshot().Page)

	m = press(t, m, "p")
	m = press(t, m, "left")
	m = press(t, m, "left")
	assert.Equal(t, 1, m.cols[tabPopular].Snapshot().Page)
	assert.Equal(t, 1, catalog.lastCall(t).page)
}

func TestStalePageIsDropped(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m, first := update(t, m, key("n"))
	m, second := update(t, m, key("n"))

	// 后发的请求先返回
	m, _ = update(t, m, results(second)[0])
	m, _ = update(t, m, results(first)[0])

	state := m.cols[tabPopular].Snapshot()
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, "popular p3 a", state.Items[0].Title)
}

func TestLoadingShowsSpinnerText(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m, _ = update(t, m, key("n"))
	assert.True(t, m.cols[tabPopular].Snapshot().Loading)
	assert.Contains(t, m.View(), "Loading...")
}

func TestFetchErrorShownInline(t *testing.T) {
	catalog := &fakeCatalog{failPages: map[int]error{2: errors.New("connection refused")}}
	m := started(t, catalog, Start{})

	m = press(t, m, "n")

	state := m.cols[tabPopular].Snapshot()
	assert.Empty(t, state.Items)
	assert.Equal(t, paging.GenericErrorText, state.Err)
	assert.Contains(t, m.View(), "Error: "+paging.GenericErrorText)
}

func TestSwitchTabsFetchesOnce(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m = press(t, m, "2")
	assert.Equal(t, tabNowPlaying, m.active)
	assert.Equal(t, "now_playing", catalog.lastCall(t).source)

	calls := catalog.callCount()
	m = press(t, m, "1")
	assert.Equal(t, tabPopular, m.active)
	assert.Equal(t, calls, catalog.callCount())

	m = press(t, m, "3")
	assert.Equal(t, "upcoming", catalog.lastCall(t).source)
	assert.Contains(t, m.View(), "upcoming p1 a")
}

func TestSearch(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m, _ = update(t, m, key("/"))
	require.Equal(t, modeSearch, m.mode)

	m.search.SetValue("alien")
	m = press(t, m, "enter")

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, tabSearch, m.active)
	assert.Equal(t, fetchCall{source: "browse", filter: paging.QueryFilter("alien"), page: 1}, catalog.lastCall(t))
	assert.Contains(t, m.View(), `Results for "alien"`)
}

func TestEmptySearchClearsWithoutRequest(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{Query: "alien"})
	require.NotEmpty(t, m.cols[tabSearch].Snapshot().Items)
	calls := catalog.callCount()

	m, _ = update(t, m, key("/"))
	m.search.SetValue("   ")
	m, cmd := update(t, m, key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, calls, catalog.callCount())
	state := m.cols[tabSearch].Snapshot()
	assert.Empty(t, state.Items)
	assert.False(t, state.Loading)
	assert.Contains(t, m.View(), "Press / to search")
}

func TestSearchEscCancels(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})
	calls := catalog.callCount()

	m, _ = update(t, m, key("/"))
	m.search.SetValue("alien")
	m, cmd := update(t, m, key("esc"))

	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, tabPopular, m.active)
	assert.Equal(t, calls, catalog.callCount())
}

func TestGenrePicker(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m = press(t, m, "g")
	require.Equal(t, modeGenres, m.mode)
	require.Len(t, m.genres, 2)

	m = press(t, m, " ")
	m = press(t, m, "j")
	m = press(t, m, " ")
	assert.Contains(t, m.View(), "[x] Comedy")

	m = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, tabDiscover, m.active)

	call := catalog.lastCall(t)
	assert.Equal(t, "browse", call.source)
	assert.Equal(t, []int{28, 35}, call.filter.GenreIDs)
	assert.Equal(t, 1, call.page)
	assert.Contains(t, m.View(), "Genres: Action, Comedy")
}

func TestGenreSelectionResetsPage(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{Genres: []int{28}})

	m = press(t, m, "n")
	m = press(t, m, "n")
	require.Equal(t, 3, m.cols[tabDiscover].Snapshot().Page)

	m = press(t, m, "g")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	assert.Equal(t, 1, catalog.lastCall(t).page)
	assert.Empty(t, catalog.lastCall(t).filter.GenreIDs)
	assert.Equal(t, 1, m.cols[tabDiscover].Snapshot().Page)
}

func TestDetail(t *testing.T) {
	catalog := &fakeCatalog{detail: &service.Detail{
		Movie:    &model.MovieDetail{ID: 11, Title: "The Matrix", Runtime: 136, ReleaseDate: "1999-03-31"},
		Credits:  &model.Credits{Cast: []model.CastMember{{Name: "Keanu Reeves"}}},
		Videos:   &model.VideoList{},
		Similar:  &model.MoviePage{Results: []model.Movie{{Title: "Dark City"}}},
		Director: &model.CrewMember{Name: "Lana Wachowski", Job: model.JobDirector},
		Writers:  []string{"Lilly Wachowski"},
		Trailer:  &model.Video{Key: "abc", Site: model.SiteYouTube, Type: model.VideoTypeTrailer},
	}}
	m := started(t, catalog, Start{})

	m = press(t, m, "enter")
	require.Equal(t, modeDetail, m.mode)

	view := m.View()
	assert.Contains(t, view, "The Matrix")
	assert.Contains(t, view, "2h 16m")
	assert.Contains(t, view, "Lana Wachowski")
	assert.Contains(t, view, "Keanu Reeves")
	assert.Contains(t, view, "https://www.youtube.com/watch?v=abc")
	assert.Contains(t, view, service.DefaultPlaceholder)
	assert.Contains(t, view, "Dark City")

	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.detail)
}

func TestDetailWithoutDirector(t *testing.T) {
	catalog := &fakeCatalog{detail: &service.Detail{
		Movie:   &model.MovieDetail{ID: 11, Title: "Untitled"},
		Credits: &model.Credits{},
		Videos:  &model.VideoList{},
		Similar: &model.MoviePage{},
	}}
	m := started(t, catalog, Start{})

	m = press(t, m, "enter")
	assert.NotContains(t, m.View(), "Director")
}

func TestDetailErrorAndStaleResult(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m = press(t, m, "enter")
	assert.Contains(t, m.View(), "Error: "+paging.GenericErrorText)

	// 返回列表后再到达的结果被丢弃
	m = press(t, m, "esc")
	m, cmd := update(t, m, key("enter"))
	m = press(t, m, "esc")
	for _, msg := range results(cmd) {
		m, _ = update(t, m, msg)
	}
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.detailErr)
}

func TestPagerMarkers(t *testing.T) {
	catalog := &fakeCatalog{}
	m := started(t, catalog, Start{})

	m = press(t, m, "n")
	pager := viewPager(m.cols[tabPopular].Snapshot())
	assert.Contains(t, pager, "page 2 of 5")
	assert.Contains(t, pager, "...")
	assert.Equal(t, []paging.Marker{{Page: 1}, {Page: 2}, {Page: 3}, {Ellipsis: true}},
		m.cols[tabPopular].Snapshot().Markers())
}

func TestQuit(t *testing.T) {
	m := started(t, &fakeCatalog{}, Start{})

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}
