package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/safar/armigera-store/internal/cart"
	"github.com/safar/armigera-store/internal/catalog"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/store"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func renderProducts(w io.Writer, title string, products []models.Product) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"ID", "Title", "Artist", "Category", "Price", "Status", "Views"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Price", Align: text.AlignRight},
		{Name: "Views", Align: text.AlignRight},
	})
	for _, p := range products {
		t.AppendRow(table.Row{p.ID, p.Title, p.Artist, p.Category, p.Price.StringFixed(2), p.Status, p.Views})
	}
	t.Render()
}

func renderPage(w io.Writer, page catalog.Page) {
	renderProducts(w, "", page.Items)
	fmt.Fprintf(w, "Showing %d of %d", page.Shown, page.Total)
	if page.HasMore {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)
}

func renderCart(w io.Writer, items []models.CartItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Cart is empty")
		return
	}
	t := newTable(w, "Cart")
	t.AppendHeader(table.Row{"Line", "Title", "Artist", "Price", "Qty"})
	for _, it := range items {
		t.AppendRow(table.Row{it.ID, it.Title, it.Artist, it.Price.StringFixed(2), it.Quantity})
	}
	t.AppendFooter(table.Row{"", "", "Total", cart.Total(items).StringFixed(2), cart.ItemsCount(items)})
	t.Render()
}

func renderStats(w io.Writer, s store.Stats) {
	t := newTable(w, "Store statistics")
	t.AppendRows([]table.Row{
		{"Products", s.TotalProducts},
		{"Customers", s.TotalUsers},
		{"Orders", s.TotalOrders},
		{"Published posts", s.TotalPosts},
		{"Revenue", s.TotalRevenue.StringFixed(2)},
	})
	t.Render()

	if len(s.RecentOrders) > 0 {
		renderOrders(w, "Recent orders", s.RecentOrders)
	}
	if len(s.RecentProducts) > 0 {
		renderProducts(w, "Recent products", s.RecentProducts)
	}
}

func renderOrders(w io.Writer, title string, orders []models.Order) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"ID", "Customer", "Items", "Total", "Status", "Placed"})
	for _, o := range orders {
		t.AppendRow(table.Row{o.ID, o.CustomerInfo.Name, len(o.Items), o.Total.StringFixed(2), o.Status, o.CreatedAt.Format(timeLayout)})
	}
	t.Render()
}

func renderInquiries(w io.Writer, inquiries []models.ServiceInquiry) {
	t := newTable(w, "Service inquiries")
	t.AppendHeader(table.Row{"ID", "Service", "Customer", "Email", "Status", "Received"})
	for _, q := range inquiries {
		t.AppendRow(table.Row{q.ID, q.Service, q.CustomerName, q.CustomerEmail, q.Status, q.CreatedAt.Format(timeLayout)})
	}
	t.Render()
}

func renderOptions(w io.Writer, title string, opts []catalog.Option) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Value", "Label", "Count"})
	for _, o := range opts {
		t.AppendRow(table.Row{o.Value, o.Label, o.Count})
	}
	t.Render()
}

func renderUsers(w io.Writer, title string, users []models.User) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"ID", "Name", "Email", "Role", "Last login"})
	for _, u := range users {
		last := "never"
		if u.LastLogin != nil {
			last = u.LastLogin.Format(timeLayout)
		}
		t.AppendRow(table.Row{u.ID, u.Name, u.Email, u.Role, last})
	}
	t.Render()
}

func renderPosts(w io.Writer, title string, posts []models.BlogPost) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"ID", "Title", "Author", "Category", "Status", "Created"})
	for _, p := range posts {
		t.AppendRow(table.Row{p.ID, p.Title, p.Author, p.Category, p.Status, p.CreatedAt.Format(timeLayout)})
	}
	t.Render()
}
