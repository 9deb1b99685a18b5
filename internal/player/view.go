package player

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/birthday/internal/celebration"
	"git.home.luguber.info/inful/birthday/internal/gallery"
)

const (
	gridColumns = 4
	tileWidth   = 16
)

// Styles holds the lipgloss styles of the player.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Carousel lipgloss.Style
	Current  lipgloss.Style
	Dim      lipgloss.Style
	Tile     lipgloss.Style
	Fading   lipgloss.Style
	Status   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the pink and purple palette of the site.
func DefaultStyles() Styles {
	pink := lipgloss.Color("#db2777")
	purple := lipgloss.Color("#9333ea")
	grey := lipgloss.Color("#6b7280")
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(pink),
		Subtitle: lipgloss.NewStyle().Foreground(purple),
		Carousel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(pink).Padding(0, 1),
		Current:  lipgloss.NewStyle().Bold(true),
		Dim:      lipgloss.NewStyle().Foreground(grey),
		Tile:     lipgloss.NewStyle().Width(tileWidth).Foreground(purple),
		Fading:   lipgloss.NewStyle().Width(tileWidth).Foreground(grey).Faint(true),
		Status:   lipgloss.NewStyle().Foreground(pink).Italic(true),
		Help:     lipgloss.NewStyle().Foreground(grey),
	}
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Happy Birthday!"))
	sb.WriteString("  ")
	sb.WriteString(heartsLine(m.snap.Hearts))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Subtitle.Render("Our Beautiful Memories"))
	sb.WriteString("\n")
	sb.WriteString(m.renderCarousel())
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Subtitle.Render("Collage"))
	sb.WriteString("\n")
	sb.WriteString(m.renderCollage())
	sb.WriteString("\n")

	if m.status != "" {
		sb.WriteString(m.styles.Status.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Help.Render("←/h prev • →/l next • space pause • 1-9 jump • r reshuffle • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderCarousel() string {
	st := m.snap.Carousel
	img, ok := st.CurrentImage()
	if !ok {
		return m.styles.Carousel.Render(m.styles.Dim.Render("No photos yet"))
	}

	var lines []string
	lines = append(lines, m.styles.Current.Render(img.Alt))
	lines = append(lines, m.styles.Dim.Render(img.Src))

	state := "playing"
	if st.Paused {
		state = "paused"
	}
	pos := fmt.Sprintf("%d/%d  %s", st.Current+1, len(st.Items), state)
	if st.Transitioning && st.Target >= 0 {
		pos += fmt.Sprintf("  → %d", st.Target+1)
	}
	lines = append(lines, pos)
	lines = append(lines, dots(st.Current, len(st.Items)))

	return m.styles.Carousel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCollage() string {
	tiles := m.snap.Collage.Tiles()
	if len(tiles) == 0 {
		return m.styles.Dim.Render("(empty)")
	}
	style := m.styles.Tile
	if m.snap.Collage.Transitioning {
		style = m.styles.Fading
	}

	var rows []string
	for start := 0; start < len(tiles); start += gridColumns {
		end := min(start+gridColumns, len(tiles))
		cells := make([]string, 0, gridColumns)
		for _, t := range tiles[start:end] {
			cells = append(cells, style.Render(tileLabel(t)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// tileLabel names a tile by file name; alt text is often shared by all tiles.
func tileLabel(img gallery.Image) string {
	name := path.Base(img.Src)
	if r := []rune(name); len(r) > tileWidth-2 {
		name = string(r[:tileWidth-3]) + "…"
	}
	return name
}

func dots(current, n int) string {
	const maxDots = 20
	if n > maxDots {
		return ""
	}
	var sb strings.Builder
	for i := range n {
		if i == current {
			sb.WriteString("●")
		} else {
			sb.WriteString("○")
		}
	}
	return sb.String()
}

func heartsLine(hearts []celebration.Heart) string {
	glyphs := make([]string, 0, len(hearts))
	for _, h := range hearts {
		glyphs = append(glyphs, h.Glyph)
	}
	return strings.Join(glyphs, " ")
}
