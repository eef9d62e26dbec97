package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is implemented by pointers to every record stored in a table.
type Entity interface {
	GetID() string
	SetID(id string)
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Role      Role       `json:"role"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type ProductStatus string

const (
	ProductActive ProductStatus = "active"
	ProductDraft  ProductStatus = "draft"
	ProductSold   ProductStatus = "sold"
)

type Product struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Category         string          `json:"category"`
	Artist           string          `json:"artist"`
	Dimensions       string          `json:"dimensions,omitempty"`
	DimensionsInches string          `json:"dimensionsInches,omitempty"`
	Materials        string          `json:"materials,omitempty"`
	Technique        string          `json:"technique,omitempty"`
	Status           ProductStatus   `json:"status"`
	Images           []string        `json:"images"`
	Views            int             `json:"views,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// PrimaryImage returns the first image or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

type BlogPost struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	Category      string     `json:"category"`
	Author        string     `json:"author"`
	Status        PostStatus `json:"status"`
	Tags          []string   `json:"tags"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product at checkout time.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Items        []OrderItem     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	CustomerInfo CustomerInfo    `json:"customerInfo"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryCompleted InquiryStatus = "completed"
)

type ServiceInquiry struct {
	ID            string        `json:"id"`
	Service       string        `json:"service"`
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	CustomerPhone string        `json:"customerPhone"`
	Message       string        `json:"message"`
	Status        InquiryStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CartItem is one cart line. Title, artist, price and image are copied from
// the product when the line is created and never refreshed.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Artist    string          `json:"artist"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
}

func (u *User) GetID() string             { return u.ID }
func (u *User) SetID(id string)           { u.ID = id }
func (p *Product) GetID() string          { return p.ID }
func (p *Product) SetID(id string)        { p.ID = id }
func (b *BlogPost) GetID() string         { return b.ID }
func (b *BlogPost) SetID(id string)       { b.ID = id }
func (o *Order) GetID() string            { return o.ID }
func (o *Order) SetID(id string)          { o.ID = id }
func (s *ServiceInquiry) GetID() string   { return s.ID }
func (s *ServiceInquiry) SetID(id string) { s.ID = id }
func (c *CartItem) GetID() string         { return c.ID }
func (c *CartItem) SetID(id string)       { c.ID = id }

func (u *User) StampCreated(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}

func (p *Product) StampCreated(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}

func (b *BlogPost) StampCreated(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
}

func (o *Order) StampCreated(now time.Time) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
}

func (s *ServiceInquiry) StampCreated(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
}
