package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/s0up4200/marquee/tmdb"
)

// Screen copy
const (
	LoadingCaption    = "Carregando filmes..."
	EmptyMessage      = "Nenhum resultado."
	NoImageText       = "Sem imagem"
	SearchPlaceholder = "Buscar por título..."
	RefreshingCaption = "Atualizando..."
)

const (
	DefaultWidth         = 80
	DefaultSynopsisLines = 3
	minWidth             = 20
)

// FormatOptions contains options for rendering the screen
type FormatOptions struct {
	ShowEndpoint  bool
	Width         int
	SynopsisLines int
	// PosterURL builds the image URL for a movie. Defaults to the TMDB w500 URL.
	PosterURL func(tmdb.Movie) string
}

func (o FormatOptions) withDefaults() FormatOptions {
	if o.Width < minWidth {
		o.Width = DefaultWidth
	}
	if o.SynopsisLines <= 0 {
		o.SynopsisLines = DefaultSynopsisLines
	}
	if o.PosterURL == nil {
		o.PosterURL = func(m tmdb.Movie) string {
			return tmdb.BuildImageURL(tmdb.DefaultImageBaseURL, tmdb.DefaultPosterSize, m.Poster())
		}
	}
	return o
}

// ConsoleFormatter renders the catalog screen as plain text
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatScreen renders the loading indicator while loading, otherwise the
// search box followed by one card per visible movie.
func (f *ConsoleFormatter) FormatScreen(state State, visible []tmdb.Movie, options FormatOptions) string {
	options = options.withDefaults()

	var sb strings.Builder

	if state.Loading {
		fmt.Fprintf(&sb, "◌ %s\n", LoadingCaption)
		return sb.String()
	}

	if options.ShowEndpoint && state.Endpoint != "" {
		fmt.Fprintf(&sb, "Endpoint: %s\n", state.Endpoint)
	}

	f.formatSearchBox(&sb, state.Query, options.Width)

	if state.Refreshing {
		fmt.Fprintf(&sb, "↻ %s\n", RefreshingCaption)
	}

	sb.WriteString("\n")
	sb.WriteString(f.FormatMovieList(visible, options))
	return sb.String()
}

// FormatMovieList renders the cards, or the empty-state message
func (f *ConsoleFormatter) FormatMovieList(movies []tmdb.Movie, options FormatOptions) string {
	options = options.withDefaults()

	if len(movies) == 0 {
		return EmptyMessage + "\n"
	}

	var sb strings.Builder
	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatCard(&sb, movie, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	return sb.String()
}

func (f *ConsoleFormatter) formatSearchBox(sb *strings.Builder, query string, width int) {
	text := query
	if text == "" {
		text = SearchPlaceholder
	}
	inner := width - 4
	text = truncate(text, inner)
	pad := inner - utf8.RuneCountInString(text)

	fmt.Fprintf(sb, "╭%s╮\n", strings.Repeat("─", width-2))
	fmt.Fprintf(sb, "│ %s%s │\n", text, strings.Repeat(" ", pad))
	fmt.Fprintf(sb, "╰%s╯\n", strings.Repeat("─", width-2))
}

func (f *ConsoleFormatter) formatCard(sb *strings.Builder, movie tmdb.Movie, isLast bool, options FormatOptions) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s\n", prefix, movie.Title)

	if movie.HasPoster() {
		fmt.Fprintf(sb, "%sPoster: %s\n", indent, options.PosterURL(movie))
	} else {
		fmt.Fprintf(sb, "%s[ %s ]\n", indent, NoImageText)
	}

	for _, line := range Synopsis(movie.Overview, options.Width-4, options.SynopsisLines) {
		fmt.Fprintf(sb, "%s%s\n", indent, line)
	}
}

// Synopsis word-wraps text to width and keeps at most maxLines lines. When text
// is cut, the last kept line ends with an ellipsis.
func Synopsis(text string, width, maxLines int) []string {
	width = max(width, 1)
	lines := wrap(text, width)
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := lines[maxLines-1]
	if utf8.RuneCountInString(last) >= width {
		last = string([]rune(last)[:width-1])
	}
	lines[maxLines-1] = strings.TrimRight(last, " ") + "…"
	return lines
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var line []rune
	for _, word := range words {
		w := []rune(word)
		// Hard-split words that cannot fit on a line of their own
		for len(w) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = line[:0]
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = append(line, w...)
		case len(line)+1+len(w) <= width:
			line = append(line, ' ')
			line = append(line, w...)
		default:
			lines = append(lines, string(line))
			line = append(line[:0], w...)
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
