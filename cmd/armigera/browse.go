package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/safar/armigera-store/internal/cart"
	"github.com/safar/armigera-store/internal/catalog"
	"github.com/safar/armigera-store/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

// browser is an interactive gallery session: the shopper narrows the catalog,
// loads more results and fills the cart.
type browser struct {
	a        *app
	criteria catalog.Criteria
	pager    *catalog.Pager
	badge    int
}

func newBrowser(a *app) *browser {
	return &browser{
		a:        a,
		criteria: catalog.Criteria{Categories: []string{catalog.All}, Artist: catalog.All, Sort: catalog.SortNewest},
		pager:    catalog.NewPager(a.cfg.Catalog.PageSize),
	}
}

func newBrowseCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the gallery and fill the cart interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			b := newBrowser(a)
			unsubscribe := a.cart.Subscribe(func(items []models.CartItem) {
				b.badge = cart.ItemsCount(items)
			})
			defer unsubscribe()

			home, err := os.UserHomeDir()
			if err != nil {
				home = "."
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "\033[1;36mgallery>\033[0m ",
				HistoryFile:       filepath.Join(home, ".armigera_history"),
				InterruptPrompt:   "^C",
				EOFPrompt:         "quit",
				HistorySearchFold: true,
			})
			if err != nil {
				return fmt.Errorf("init readline: %w", err)
			}
			defer rl.Close()

			return b.run(cmd.Context(), rl)
		},
	}
}

func (b *browser) run(ctx context.Context, rl *readline.Instance) error {
	fmt.Fprintln(b.a.out, "Armigera gallery. Type 'help' for commands, 'quit' to leave.")
	if err := b.exec(ctx, "list"); err != nil {
		fmt.Fprintf(b.a.out, "Error: %v\n", err)
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		err = b.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(b.a.out, "\033[1;31mError:\033[0m %v\n", err)
		}
		rl.SetPrompt(fmt.Sprintf("\033[1;36mgallery [cart %d]>\033[0m ", b.badge))
	}
}

// exec runs one browse command. Changing any criterion goes back to the
// first page.
func (b *browser) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	out := b.a.out

	switch cmd {
	case "quit", "exit", "\\q":
		return errQuit
	case "help", "?":
		b.help()
		return nil
	case "list":
		return b.list(ctx)
	case "more":
		b.pager.LoadMore()
		return b.list(ctx)
	case "category":
		if len(args) == 0 {
			args = []string{catalog.All}
		}
		b.criteria.Categories = strings.Split(strings.Join(args, " "), ",")
	case "artist":
		b.criteria.Artist = catalog.All
		if len(args) > 0 {
			b.criteria.Artist = strings.Join(args, " ")
		}
	case "price":
		if len(args) != 2 {
			return errors.New("usage: price <min|-> <max|->")
		}
		lo, err := parseBound(args[0])
		if err != nil {
			return err
		}
		hi, err := parseBound(args[1])
		if err != nil {
			return err
		}
		b.criteria.MinPrice, b.criteria.MaxPrice = lo, hi
	case "sort":
		if len(args) != 1 {
			return errors.New("usage: sort newest|price-low|price-high|popular")
		}
		key, err := catalog.ParseSortKey(args[0])
		if err != nil {
			return err
		}
		b.criteria.Sort = key
	case "facets":
		active, err := b.a.products.Active(ctx)
		if err != nil {
			return err
		}
		renderOptions(out, "Categories", catalog.CategoryCounts(active))
		renderOptions(out, "Artists", catalog.Artists(active))
		lo, hi := catalog.PriceBounds(active)
		fmt.Fprintf(out, "Prices from %s to %s\n", lo.StringFixed(2), hi.StringFixed(2))
		return nil
	case "view":
		if len(args) != 1 {
			return errors.New("usage: view <product-id>")
		}
		p, err := b.a.products.RecordView(ctx, args[0])
		if err != nil {
			return err
		}
		renderProducts(out, p.Title, []models.Product{p})
		return nil
	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <product-id>")
		}
		p, err := b.a.db.Products().GetByID(ctx, args[0])
		if err != nil {
			return err
		}
		line, err := b.a.cart.AddToCart(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s (x%d)\n", line.Title, line.Quantity)
		return nil
	case "cart":
		items, err := b.a.cart.GetCart(ctx)
		if err != nil {
			return err
		}
		renderCart(out, items)
		return nil
	case "remove":
		if len(args) != 1 {
			return errors.New("usage: remove <line-id>")
		}
		ok, err := b.a.cart.RemoveFromCart(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "No such line")
		}
		return nil
	case "qty":
		if len(args) != 2 {
			return errors.New("usage: qty <line-id> <quantity>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		ok, err := b.a.cart.UpdateQuantity(ctx, args[0], n)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "No such line")
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	b.pager.Reset()
	return b.list(ctx)
}

func (b *browser) list(ctx context.Context) error {
	active, err := b.a.products.Active(ctx)
	if err != nil {
		return err
	}
	page := b.pager.Page(catalog.Query(active, b.criteria))
	switch {
	case len(active) == 0:
		fmt.Fprintln(b.a.out, "The gallery is empty")
		return nil
	case page.Total == 0:
		fmt.Fprintln(b.a.out, "No works match the current filters")
		return nil
	}
	renderPage(b.a.out, page)
	return nil
}

func (b *browser) help() {
	fmt.Fprint(b.a.out, `Commands:
  list                       show the current page
  more                       load one more page
  category <a,b,...|all>     filter by category
  artist <name|all>          filter by artist
  price <min|-> <max|->      filter by price, '-' leaves a bound open
  sort <key>                 newest, price-low, price-high or popular
  facets                     show categories, artists and price range
  view <product-id>          show a product and count the view
  add <product-id>           add a product to the cart
  cart                       show the cart
  remove <line-id>           remove a cart line
  qty <line-id> <n>          set a line's quantity, 0 removes it
  quit                       leave
`)
}

func parseBound(s string) (*decimal.Decimal, error) {
	if s == "-" {
		return nil, nil
	}
	return parsePrice(s)
}
