package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/catalog"
)

// maxParallelQueries bounds concurrent TMDB requests for multi-query searches
const maxParallelQueries = 4

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query> [query...]",
	Short: "Search the catalog by title",
	Long: `Search TMDB for each query and print the matching movies.

Several queries are fetched concurrently and printed in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// popularCmd represents the popular command
var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List popular movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		screen := newScreen()
		screen.Mount(cmd.Context())
		fmt.Fprint(cmd.OutOrStdout(), renderScreen(screen))
		return nil
	},
}

func runSearch(cmd *cobra.Command, args []string) error {
	rendered, err := searchAll(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, r := range rendered {
		if len(rendered) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s %q\n", strings.Repeat("═", 3), args[i])
		}
		fmt.Fprint(out, r)
	}
	return nil
}

// searchAll renders one screen per query, fetching them concurrently
func searchAll(cmd *cobra.Command, queries []string) ([]string, error) {
	for i, query := range queries {
		if strings.TrimSpace(query) == "" {
			return nil, fmt.Errorf("query %d is empty", i+1)
		}
	}

	rendered := make([]string, len(queries))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelQueries)

	for i, query := range queries {
		query = strings.TrimSpace(query)
		g.Go(func() error {
			screen := newScreen(catalog.WithInitialQuery(query))
			screen.Mount(ctx)
			if err := ctx.Err(); err != nil {
				return err
			}
			// Each goroutine owns its own index
			rendered[i] = renderScreen(screen)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rendered, nil
}
