package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/safar/armigera-store/internal/cart"
	"github.com/safar/armigera-store/internal/config"
	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/service"
	"github.com/safar/armigera-store/internal/storage"
	"github.com/safar/armigera-store/internal/store"
	"github.com/spf13/cobra"
)

type app struct {
	cfg    *config.Config
	log    *slog.Logger
	out    io.Writer
	medium storage.Medium

	db        *store.DB
	cart      *cart.Manager
	products  *service.ProductService
	accounts  *service.AccountService
	inquiries *service.InquiryService
	blog      *service.BlogService
	orders    *service.OrderService
}

func newApp(cfg *config.Config, medium storage.Medium, log *slog.Logger, out io.Writer) *app {
	opts := []store.Option{
		store.WithNamespace(cfg.Storage.Namespace),
		store.WithLogger(log),
	}
	if cfg.Admin.Email != "" {
		opts = append(opts, store.WithAdmin(models.User{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}))
	}
	db := store.New(medium, opts...)
	c := cart.NewManager(medium, cart.WithNamespace(cfg.Storage.Namespace), cart.WithLogger(log))

	return &app{
		cfg:       cfg,
		log:       log,
		out:       out,
		medium:    medium,
		db:        db,
		cart:      c,
		products:  service.NewProductService(db, log),
		accounts:  service.NewAccountService(db, log),
		inquiries: service.NewInquiryService(db, log),
		blog:      service.NewBlogService(db, log),
		orders:    service.NewOrderService(db, c, log),
	}
}

func (a *app) close() {
	if c, ok := a.medium.(storage.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Error("close medium", slog.String(logkey.ERROR, err.Error()))
		}
	}
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:           "armigera",
		Short:         "Manage the Armigera gallery store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
			slog.SetDefault(log)

			medium, err := storage.Open(cfg)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			log.Debug("storage opened", slog.String(logkey.Driver, cfg.Storage.Driver))

			a = newApp(cfg, medium, log, out)
			return a.db.Init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
	}
	root.SetOut(out)

	get := func() *app { return a }
	root.AddCommand(
		newInitCmd(get),
		newStatsCmd(get),
		newExportCmd(get),
		newClearCmd(get),
		newCatalogCmd(get),
		newProductCmd(get),
		newCartCmd(get),
		newCheckoutCmd(get),
		newInquiryCmd(get),
		newOrdersCmd(get),
		newRegisterCmd(get),
		newLoginCmd(get),
		newAdminsCmd(get),
		newBlogCmd(get),
		newBrowseCmd(get),
	)
	return root
}
