package store

import (
	"context"

	"github.com/safar/armigera-store/internal/models"
)

const (
	TableUsers     = "users"
	TableProducts  = "products"
	TableBlogPosts = "blog_posts"
	TableOrders    = "orders"
	TableInquiries = "service_inquiries"
)

// DefaultTables are registered by New so Init versions them even before any
// handle is opened.
var DefaultTables = []string{TableUsers, TableProducts, TableBlogPosts, TableOrders, TableInquiries}

type (
	UserTable     = Table[models.User, *models.User]
	ProductTable  = Table[models.Product, *models.Product]
	BlogPostTable = Table[models.BlogPost, *models.BlogPost]
	OrderTable    = Table[models.Order, *models.Order]
	InquiryTable  = Table[models.ServiceInquiry, *models.ServiceInquiry]
)

func (db *DB) Users() *UserTable         { return NewTable[models.User](db, TableUsers) }
func (db *DB) Products() *ProductTable   { return NewTable[models.Product](db, TableProducts) }
func (db *DB) BlogPosts() *BlogPostTable { return NewTable[models.BlogPost](db, TableBlogPosts) }
func (db *DB) Orders() *OrderTable       { return NewTable[models.Order](db, TableOrders) }
func (db *DB) Inquiries() *InquiryTable  { return NewTable[models.ServiceInquiry](db, TableInquiries) }

// UserByEmail looks a user up by exact, case-sensitive email.
func (db *DB) UserByEmail(ctx context.Context, email string) (models.User, error) {
	return db.Users().Find(ctx, func(u *models.User) bool { return u.Email == email })
}

// ClearTable drops a table by name, whatever its record type.
func (db *DB) ClearTable(ctx context.Context, table string) error {
	l := db.tableLock(table)
	l.Lock()
	defer l.Unlock()
	return db.remove(ctx, table)
}
