package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/safar/armigera-store/internal/catalog"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/service"
	"github.com/safar/armigera-store/internal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type appFunc func() *app

func newInitCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Version every table and seed the admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			for _, table := range a.db.Tables() {
				v, err := a.db.SchemaVersion(cmd.Context(), table)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%-20s schema v%d\n", table, v)
			}
			return nil
		},
	}
}

func newStatsCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard totals and recent records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			s, err := a.db.Stats(cmd.Context())
			if err != nil {
				return err
			}
			renderStats(a.out, s)
			return nil
		},
	}
}

func newExportCmd(get appFunc) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of users, products, posts and orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			path := filepath.Join(dir, store.BackupFileName(a.db.Now()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			defer f.Close()

			if err := a.db.Export(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Backup written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the backup into")
	return cmd
}

func newClearCmd(get appFunc) *cobra.Command {
	return &cobra.Command{
		Use:       "clear <table>",
		Short:     "Remove every record from a table",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: store.DefaultTables,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.db.ClearTable(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Cleared %s\n", args[0])
			return nil
		},
	}
}

type criteriaFlags struct {
	categories []string
	artist     string
	min, max   string
	sort       string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.categories, "category", []string{catalog.All}, "categories to include")
	cmd.Flags().StringVar(&f.artist, "artist", catalog.All, "artist to include")
	cmd.Flags().StringVar(&f.min, "min", "", "lowest price")
	cmd.Flags().StringVar(&f.max, "max", "", "highest price")
	cmd.Flags().StringVar(&f.sort, "sort", string(catalog.SortNewest), "newest, price-low, price-high or popular")
}

func (f *criteriaFlags) criteria() (catalog.Criteria, error) {
	c := catalog.Criteria{Categories: f.categories, Artist: f.artist}

	var err error
	if c.Sort, err = catalog.ParseSortKey(f.sort); err != nil {
		return c, err
	}
	if c.MinPrice, err = parsePrice(f.min); err != nil {
		return c, fmt.Errorf("min price: %w", err)
	}
	if c.MaxPrice, err = parsePrice(f.max); err != nil {
		return c, fmt.Errorf("max price: %w", err)
	}
	return c, nil
}

func parsePrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func newCatalogCmd(get appFunc) *cobra.Command {
	var (
		flags  criteriaFlags
		pages  int
		facets bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List active products the way the gallery shows them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			c, err := flags.criteria()
			if err != nil {
				return err
			}

			active, err := a.products.Active(cmd.Context())
			if err != nil {
				return err
			}
			if facets {
				renderOptions(a.out, "Categories", catalog.CategoryCounts(active))
				renderOptions(a.out, "Artists", catalog.Artists(active))
				lo, hi := catalog.PriceBounds(active)
				fmt.Fprintf(a.out, "Prices from %s to %s\n", lo.StringFixed(2), hi.StringFixed(2))
			}

			pager := catalog.NewPager(a.cfg.Catalog.PageSize)
			for i := 1; i < pages; i++ {
				pager.LoadMore()
			}
			renderPage(a.out, pager.Page(catalog.Query(active, c)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to show")
	cmd.Flags().BoolVar(&facets, "facets", false, "also show category, artist and price facets")
	return cmd
}

func newProductCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	var (
		in    service.ProductInput
		price string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			var err error
			if in.Price, err = decimal.NewFromString(price); err != nil {
				return fmt.Errorf("price: %w", err)
			}
			p, err := a.products.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderProducts(a.out, "Created", []models.Product{p})
			return nil
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "title")
	add.Flags().StringVar(&in.Description, "description", "", "description")
	add.Flags().StringVar(&price, "price", "0", "price")
	add.Flags().StringVar(&in.Category, "category", "", "category")
	add.Flags().StringVar(&in.Artist, "artist", "", "artist")
	add.Flags().StringVar(&in.Dimensions, "dimensions", "", "dimensions in cm")
	add.Flags().StringVar(&in.Materials, "materials", "", "materials")
	add.Flags().StringVar((*string)(&in.Status), "status", string(models.ProductActive), "active, draft or sold")
	add.Flags().StringSliceVar(&in.Images, "image", nil, "image URL, repeatable")

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a product's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.products.SetStatus(cmd.Context(), args[0], models.ProductStatus(args[1]))
			if err != nil {
				return err
			}
			renderProducts(a.out, "Updated", []models.Product{p})
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ok, err := a.products.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("product %s: %w", args[0], store.ErrNotFound)
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, status, del)
	return cmd
}

func newCartCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			items, err := a.cart.GetCart(cmd.Context())
			if err != nil {
				return err
			}
			renderCart(a.out, items)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p, err := a.db.Products().GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			line, err := a.cart.AddToCart(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s x%d (line %s)\n", line.Title, line.Quantity, line.ID)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ok, err := a.cart.RemoveFromCart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("cart line %s: %w", args[0], store.ErrNotFound)
			}
			return nil
		},
	}

	qty := &cobra.Command{
		Use:   "qty <line-id> <quantity>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
			ok, err := a.cart.UpdateQuantity(cmd.Context(), args[0], n)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("cart line %s: %w", args[0], store.ErrNotFound)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().cart.ClearCart(cmd.Context())
		},
	}

	cmd.AddCommand(add, remove, qty, clearCmd)
	return cmd
}

func newCheckoutCmd(get appFunc) *cobra.Command {
	var (
		userID   string
		customer models.CustomerInfo
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			order, err := a.orders.Checkout(cmd.Context(), userID, customer)
			if err != nil {
				return err
			}
			renderOrders(a.out, "Order placed", []models.Order{order})
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "id of the ordering user")
	cmd.Flags().StringVar(&customer.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&customer.Email, "email", "", "customer email")
	cmd.Flags().StringVar(&customer.Phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&customer.Address, "address", "", "delivery address")
	return cmd
}

func newInquiryCmd(get appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inquiries",
		Short: "List service inquiries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			list, err := a.inquiries.List(cmd.Context())
			if err != nil {
				return err
			}
			renderInquiries(a.out, list)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an inquiry's status to new, contacted or completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			_, err := a.inquiries.SetStatus(cmd.Context(), args[0], models.InquiryStatus(args[1]))
			return err
		},
	}
	var in service.InquiryInput
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Record a service inquiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			q, err := a.inquiries.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderInquiries(a.out, []models.ServiceInquiry{q})
			return nil
		},
	}
	submit.Flags().StringVar(&in.Service, "service", "", "requested service")
	submit.Flags().StringVar(&in.CustomerName, "name", "", "customer name")
	submit.Flags().StringVar(&in.CustomerEmail, "email", "", "customer email")
	submit.Flags().StringVar(&in.CustomerPhone, "phone", "", "customer phone")
	submit.Flags().StringVar(&in.Message, "message", "", "message")

	cmd.AddCommand(status, submit)
	return cmd
}
