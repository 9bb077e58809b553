package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
)

const clearScreen = "\033[H\033[2J"

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse [query]",
	Short: "Browse the catalog interactively",
	Long: `Show the catalog and read queries from standard input.

Each line replaces the search query. An empty line clears it and goes back to
the popular list. ":r" refreshes the current list and ":q" quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}

	in := cmd.InOrStdin()
	return browse(cmd, in, cmd.OutOrStdout(), isTerminal(in), catalog.WithInitialQuery(query))
}

// browse drives a screen from line-oriented input until EOF or ":q". The screen
// is redrawn on every state change, so the loading and refreshing indicators
// show while a fetch is in flight.
func browse(cmd *cobra.Command, in io.Reader, out io.Writer, interactive bool, opts ...catalog.Option) error {
	ctx := cmd.Context()

	var screen *catalog.Screen
	draw := func(catalog.State) {
		if interactive {
			fmt.Fprint(out, clearScreen)
		}
		fmt.Fprint(out, renderScreen(screen))
	}
	screen = newScreen(append(opts, catalog.WithOnChange(draw))...)

	screen.Mount(ctx)

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		switch line := strings.TrimSpace(scanner.Text()); line {
		case ":q", ":quit":
			return nil
		case ":r", ":refresh":
			screen.Refresh(ctx)
		default:
			screen.SetQuery(ctx, line)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return scanner.Err()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
