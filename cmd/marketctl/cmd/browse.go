package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlasovmk/marketctl/internal/errs"
	"github.com/vlasovmk/marketctl/internal/market"
	"github.com/vlasovmk/marketctl/internal/model"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse and search listings",
	Long: `Browse paginated listings. Without -i, prints one page and exits.

With -i, starts an interactive session:
  /<text>    search (resets to page 1)
  <number>   go to page
  n, p       next / previous page
  f <id>     toggle favorite
  q          quit`,
	RunE: func(c *cobra.Command, args []string) error {
		search, _ := c.Flags().GetString("search")
		page, _ := c.Flags().GetInt("page")
		interactive, _ := c.Flags().GetBool("interactive")

		a, err := newApp()
		if err != nil {
			return err
		}

		if interactive {
			return a.finish(browseInteractive(c, a, search, page))
		}

		favs := market.FavoriteSet{}
		if a.auth.Current() != nil {
			if favs, err = a.gateway.Favorites(c.Context()); err != nil {
				return a.finish(err)
			}
		}
		p, err := a.gateway.List(c.Context(), market.Cursor{Search: search, Page: page})
		if err != nil {
			return a.finish(err)
		}
		renderPage(p, favs)
		return nil
	},
}

func renderPage(p market.Page, favs market.FavoriteSet) {
	if len(p.Products) == 0 {
		fmt.Println("No products found.")
		return
	}
	for _, prod := range p.Products {
		marker := " "
		if favs.Has(prod.ID) {
			marker = "*"
		}
		seller := prod.Owner.Name()
		if seller == "" {
			seller = prod.Owner.ID()
		}
		fmt.Printf("%s %-12s  %10.2f  %-28s  by %s\n", marker, prod.ID, prod.Price, prod.Title, seller)
	}
	if p.Pages > 1 {
		fmt.Printf("Page %d of %d\n", p.Cursor.Page, p.Pages)
	}
}

func browseInteractive(c *cobra.Command, a *app, search string, page int) error {
	ctx := c.Context()

	applied := make(chan struct{}, 1)
	var b *market.Browser
	b = market.NewBrowser(a.gateway, func(p market.Page, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", errs.Message(err))
		} else {
			renderPage(p, snapshotFavorites(b))
		}
		applied <- struct{}{}
	})
	defer b.Close()

	if err := b.LoadFavorites(ctx); err != nil && !errors.Is(err, errs.ErrUnauthenticated) {
		return err
	}

	b.SetSearch(ctx, search)
	<-applied
	if page > 1 {
		b.SetPage(ctx, page)
		<-applied
	}

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		cur, _ := b.Snapshot()
		switch {
		case line == "q":
			return nil
		case line == "":
			continue
		case line == "n":
			b.SetPage(ctx, cur.Page+1)
			<-applied
		case line == "p":
			b.SetPage(ctx, cur.Page-1)
			<-applied
		case strings.HasPrefix(line, "/"):
			b.SetSearch(ctx, strings.TrimPrefix(line, "/"))
			<-applied
		case strings.HasPrefix(line, "f "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "f "))
			now, err := b.ToggleFavorite(ctx, id)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", errs.Message(err))
				continue
			}
			if now {
				fmt.Println("Added to favorites.")
			} else {
				fmt.Println("Removed from favorites.")
			}
		default:
			n, err := strconv.Atoi(line)
			if err != nil {
				fmt.Println("Commands: /<text>, <number>, n, p, f <id>, q")
				continue
			}
			b.SetPage(ctx, n)
			<-applied
		}
	}
}

// snapshotFavorites rebuilds a set view for rendering.
func snapshotFavorites(b *market.Browser) market.FavoriteSet {
	_, page := b.Snapshot()
	favs := market.FavoriteSet{}
	for _, p := range page.Products {
		if b.IsFavorite(p.ID) {
			favs[p.ID] = struct{}{}
		}
	}
	return favs
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		p, err := a.gateway.Get(c.Context(), args[0])
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				fmt.Println("Listing not found.")
				os.Exit(1)
			}
			return a.finish(err)
		}
		printProduct(p, a.auth.Current())
		return nil
	},
}

func printProduct(p model.Product, current *model.User) {
	fmt.Printf("%s\n", p.Title)
	fmt.Printf("  id:      %s\n", p.ID)
	fmt.Printf("  price:   %.2f\n", p.Price)
	fmt.Printf("  image:   %s\n", p.Image)
	if name := p.Owner.Name(); name != "" {
		fmt.Printf("  seller:  %s\n", name)
	} else if id := p.Owner.ID(); id != "" {
		fmt.Printf("  seller:  %s\n", id)
	}
	fmt.Printf("  %s\n", p.Description)
	if model.IsOwner(p, current) {
		fmt.Printf("\nThis is your listing: 'marketctl edit %s' or 'marketctl rm %s'.\n", p.ID, p.ID)
	}
}

func init() {
	browseCmd.Flags().StringP("search", "s", "", "search text")
	browseCmd.Flags().IntP("page", "P", 1, "page number")
	browseCmd.Flags().BoolP("interactive", "i", false, "interactive browse session")

	rootCmd.AddCommand(browseCmd, showCmd)
}
