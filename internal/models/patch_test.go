package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductPatchChangesOnlySetFields(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := Product{
		ID:        "p1",
		Title:     "Sadness",
		Price:     decimal.NewFromInt(150),
		Category:  "Still life",
		Artist:    "Zoriana Pavlyshyn",
		Status:    ProductActive,
		Images:    []string{"/a.jpg", "/b.jpg"},
		CreatedAt: created,
	}
	before := p

	ProductPatch{Price: Ptr(decimal.NewFromInt(175))}.Apply(&p)

	assert.True(t, p.Price.Equal(decimal.NewFromInt(175)))
	p.Price = before.Price
	assert.Equal(t, before, p)
}

func TestProductPatchReplacesImagesWholesale(t *testing.T) {
	p := Product{Images: []string{"/a.jpg", "/b.jpg"}}
	images := []string{"/c.jpg"}

	ProductPatch{Images: images}.Apply(&p)
	images[0] = "/mutated.jpg"

	assert.Equal(t, []string{"/c.jpg"}, p.Images)
}

func TestOrderPatchReplacesCustomerInfo(t *testing.T) {
	o := Order{CustomerInfo: CustomerInfo{Name: "Olha", Email: "olha@example.com", Phone: "1"}}

	OrderPatch{CustomerInfo: &CustomerInfo{Name: "Ira"}}.Apply(&o)

	assert.Equal(t, CustomerInfo{Name: "Ira"}, o.CustomerInfo)
}

func TestUserPatchCopiesLastLogin(t *testing.T) {
	u := User{Name: "Admin User"}
	at := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

	UserPatch{LastLogin: &at}.Apply(&u)
	at = at.Add(time.Hour)

	if assert.NotNil(t, u.LastLogin) {
		assert.Equal(t, 8, u.LastLogin.Hour())
	}
	assert.Equal(t, "Admin User", u.Name)
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}
