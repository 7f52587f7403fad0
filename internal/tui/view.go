package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"
)

const (
	helpList   = "←/p prev • →/n next • 1-3 lists • g genres • / search • enter details • q quit"
	helpGenres = "space toggle • enter apply • esc back"
	helpSearch = "enter search • empty clears • esc cancel"
	helpDetail = "esc back • q quit"
)

// View renders the current screen.
func (m Model) View() string {
	var body, help string
	switch m.mode {
	case modeDetail:
		body, help = m.viewDetail(), helpDetail
	case modeGenres:
		body, help = m.viewGenres(), helpGenres
	case modeSearch:
		body, help = m.search.View()+"\n\n"+m.viewList(), helpSearch
	default:
		body, help = m.viewList(), helpList
	}

	return styleTitle.Render("Movie Discovery") + "\n" +
		m.viewTabs() + "\n\n" +
		body + "\n" +
		styleFooter.Render(help)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if tab(i) == m.active {
			tabs = append(tabs, styleTabActive.Render(title))
		} else {
			tabs = append(tabs, styleTab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewList() string {
	state := m.cols[m.active].Snapshot()

	var sb strings.Builder
	if caption := m.filterCaption(state.Filter); caption != "" {
		sb.WriteString(styleDim.Render(caption) + "\n\n")
	}

	switch {
	case state.Loading:
		sb.WriteString(m.spinner.View() + styleDim.Render(" Loading...") + "\n")
	case state.Err != "":
		sb.WriteString(styleError.Render("Error: "+state.Err) + "\n")
	case len(state.Items) == 0 && m.active == tabSearch && state.Filter.IsEmpty():
		sb.WriteString(styleDim.Render("Press / to search by title.") + "\n")
	case len(state.Items) == 0:
		sb.WriteString(styleDim.Render("No movies found.") + "\n")
	default:
		for i, movie := range state.Items {
			sb.WriteString(m.viewRow(i == m.cursor, movie) + "\n")
		}
	}

	sb.WriteString("\n" + viewPager(state) + "\n")
	return sb.String()
}

func (m Model) viewRow(selected bool, movie model.Movie) string {
	line := fmt.Sprintf("%-48s %s %s",
		truncate(movie.Title, 48),
		styleDim.Render(releaseYear(movie.ReleaseDate)),
		styleStar.Render(fmt.Sprintf("★ %.1f", movie.VoteAverage)),
	)
	if selected {
		return styleSelected.Render("> ") + styleSelected.Render(line)
	}
	return "  " + line
}

func (m Model) filterCaption(f paging.Filter) string {
	switch {
	case f.IsSearch():
		return fmt.Sprintf("Results for %q", f.Query)
	case len(f.GenreIDs) > 0:
		names := make([]string, 0, len(f.GenreIDs))
		for _, id := range f.GenreIDs {
			names = append(names, m.genreName(id))
		}
		return "Genres: " + strings.Join(names, ", ")
	}
	return ""
}

func (m Model) genreName(id int) string {
	for _, g := range m.genres {
		if g.ID == id {
			return g.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

// viewPager renders prev/next and the page markers, current page highlighted.
func viewPager(state paging.State) string {
	parts := []string{}

	if state.HasPrev() {
		parts = append(parts, "‹ prev")
	} else {
		parts = append(parts, styleDim.Render("‹ prev"))
	}

	for _, marker := range state.Markers() {
		switch {
		case marker.Ellipsis:
			parts = append(parts, styleDim.Render(marker.String()))
		case marker.Page == state.Page:
			parts = append(parts, styleActive.Render(" "+marker.String()+" "))
		default:
			parts = append(parts, marker.String())
		}
	}

	if state.HasNext() {
		parts = append(parts, "next ›")
	} else {
		parts = append(parts, styleDim.Render("next ›"))
	}

	return strings.Join(parts, "  ") +
		styleDim.Render(fmt.Sprintf("   page %d of %d", state.Page, state.TotalPages))
}

func (m Model) viewGenres() string {
	if m.genreErr != "" {
		return styleError.Render("Error: "+m.genreErr) + "\n" + styleDim.Render("Press r to retry.") + "\n"
	}
	if m.genres == nil {
		return m.spinner.View() + styleDim.Render(" Loading genres...") + "\n"
	}

	var sb strings.Builder
	for i, g := range m.genres {
		box := "[ ]"
		if m.picked[g.ID] {
			box = "[x]"
		}
		line := box + " " + g.Name
		if i == m.genreCursor {
			sb.WriteString(styleSelected.Render("> "+line) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}
	return sb.String()
}

func (m Model) viewDetail() string {
	if m.detailErr != "" {
		return styleError.Render("Error: "+m.detailErr) + "\n"
	}
	if m.detail == nil {
		return m.spinner.View() + styleDim.Render(" Loading details...") + "\n"
	}

	d := m.detail
	movie := d.Movie
	var sb strings.Builder

	sb.WriteString(styleSelected.Render(movie.Title))
	sb.WriteString(styleDim.Render(" (" + releaseYear(movie.ReleaseDate) + ")"))
	sb.WriteString("\n")
	if movie.Tagline != "" {
		sb.WriteString(styleDim.Render(movie.Tagline) + "\n")
	}

	meta := []string{styleStar.Render(fmt.Sprintf("★ %.1f", movie.VoteAverage))}
	if movie.Runtime > 0 {
		meta = append(meta, fmt.Sprintf("%dh %02dm", movie.Runtime/60, movie.Runtime%60))
	}
	if len(movie.Genres) > 0 {
		names := make([]string, len(movie.Genres))
		for i, g := range movie.Genres {
			names[i] = g.Name
		}
		meta = append(meta, strings.Join(names, ", "))
	}
	sb.WriteString(strings.Join(meta, " • ") + "\n\n")

	if movie.Overview != "" {
		width := m.width
		if width <= 0 {
			width = 80
		}
		sb.WriteString(lipgloss.NewStyle().Width(width-2).Render(movie.Overview) + "\n\n")
	}

	if d.Director != nil {
		sb.WriteString(field("Director", d.Director.Name))
	}
	if len(d.Writers) > 0 {
		sb.WriteString(field("Writers", strings.Join(d.Writers, ", ")))
	}
	if len(d.Credits.Cast) > 0 {
		cast := d.Credits.Cast
		if len(cast) > 6 {
			cast = cast[:6]
		}
		names := make([]string, len(cast))
		for i, c := range cast {
			names[i] = c.Name
		}
		sb.WriteString(field("Cast", strings.Join(names, ", ")))
	}
	if d.Trailer != nil && d.Trailer.Site == model.SiteYouTube {
		sb.WriteString(field("Trailer", "https://www.youtube.com/watch?v="+d.Trailer.Key))
	}
	sb.WriteString(field("Poster", m.catalog.Images().URLOf(service.SizeFull, movie.PosterPath)))

	if len(d.Similar.Results) > 0 {
		sb.WriteString("\n" + styleInfo.Render("Similar") + "\n")
		for i, s := range d.Similar.Results {
			if i == 5 {
				break
			}
			sb.WriteString("  " + s.Title + styleDim.Render(" ("+releaseYear(s.ReleaseDate)+")") + "\n")
		}
	}
	return sb.String()
}

func field(label, value string) string {
	return styleInfo.Render(fmt.Sprintf("%-9s", label)) + " " + value + "\n"
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return "----"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
