package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patch applies a partial update to a record. Only the fields set on the
// patch change; slices and nested structs are replaced wholesale.
type Patch[T any] interface {
	Apply(rec *T)
}

type UserPatch struct {
	Name      *string
	Email     *string
	Password  *string
	Role      *Role
	Phone     *string
	Address   *string
	LastLogin *time.Time
}

func (p UserPatch) Apply(u *User) {
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Password, p.Password)
	set(&u.Role, p.Role)
	set(&u.Phone, p.Phone)
	set(&u.Address, p.Address)
	if p.LastLogin != nil {
		t := *p.LastLogin
		u.LastLogin = &t
	}
}

type ProductPatch struct {
	Title            *string
	Description      *string
	Price            *decimal.Decimal
	Category         *string
	Artist           *string
	Dimensions       *string
	DimensionsInches *string
	Materials        *string
	Technique        *string
	Status           *ProductStatus
	Images           []string
	Views            *int
	UpdatedAt        *time.Time
}

func (p ProductPatch) Apply(pr *Product) {
	set(&pr.Title, p.Title)
	set(&pr.Description, p.Description)
	set(&pr.Price, p.Price)
	set(&pr.Category, p.Category)
	set(&pr.Artist, p.Artist)
	set(&pr.Dimensions, p.Dimensions)
	set(&pr.DimensionsInches, p.DimensionsInches)
	set(&pr.Materials, p.Materials)
	set(&pr.Technique, p.Technique)
	set(&pr.Status, p.Status)
	if p.Images != nil {
		pr.Images = append([]string(nil), p.Images...)
	}
	set(&pr.Views, p.Views)
	set(&pr.UpdatedAt, p.UpdatedAt)
}

type BlogPostPatch struct {
	Title         *string
	Excerpt       *string
	Content       *string
	Category      *string
	Author        *string
	Status        *PostStatus
	Tags          []string
	FeaturedImage *string
	UpdatedAt     *time.Time
}

func (p BlogPostPatch) Apply(b *BlogPost) {
	set(&b.Title, p.Title)
	set(&b.Excerpt, p.Excerpt)
	set(&b.Content, p.Content)
	set(&b.Category, p.Category)
	set(&b.Author, p.Author)
	set(&b.Status, p.Status)
	if p.Tags != nil {
		b.Tags = append([]string(nil), p.Tags...)
	}
	set(&b.FeaturedImage, p.FeaturedImage)
	set(&b.UpdatedAt, p.UpdatedAt)
}

type OrderPatch struct {
	Status       *OrderStatus
	Items        []OrderItem
	Total        *decimal.Decimal
	CustomerInfo *CustomerInfo
	UpdatedAt    *time.Time
}

func (p OrderPatch) Apply(o *Order) {
	set(&o.Status, p.Status)
	if p.Items != nil {
		o.Items = append([]OrderItem(nil), p.Items...)
	}
	set(&o.Total, p.Total)
	set(&o.CustomerInfo, p.CustomerInfo)
	set(&o.UpdatedAt, p.UpdatedAt)
}

type InquiryPatch struct {
	Status  *InquiryStatus
	Message *string
}

func (p InquiryPatch) Apply(s *ServiceInquiry) {
	set(&s.Status, p.Status)
	set(&s.Message, p.Message)
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
