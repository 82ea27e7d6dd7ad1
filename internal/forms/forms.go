// Package forms holds the validation and save flow of the customer and
// product edit forms.
package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughinvoice/internal/domain"
)

// Saver persists one entity kind; the entity stores implement it.
type Saver[T domain.Entity] interface {
	Add(ctx context.Context, item T) error
	Update(ctx context.Context, id string, item T) error
}

// CustomerForm is the raw input of the customer form.
type CustomerForm struct {
	CustomerID   string
	CustomerName string
	Phone        string
}

// CustomerFormOf prefills the form from an existing customer.
func CustomerFormOf(c domain.Customer) CustomerForm {
	return CustomerForm{
		CustomerID:   c.CustomerID,
		CustomerName: c.CustomerName,
		Phone:        c.PhoneOrEmpty(),
	}
}

func (f CustomerForm) Build() (domain.Customer, error) {
	id := domain.NormalizeID(f.CustomerID)
	name := strings.TrimSpace(f.CustomerName)
	if id == "" {
		return domain.Customer{}, domain.NewValidationError("customerID", "customer id is required")
	}
	if name == "" {
		return domain.Customer{}, domain.NewValidationError("customerName", "customer name is required")
	}
	c := domain.Customer{CustomerID: id, CustomerName: name}
	if phone := strings.TrimSpace(f.Phone); phone != "" {
		c.Phone = &phone
	}
	return c, nil
}

// ProductForm is the raw input of the product form.
type ProductForm struct {
	ProductID   string
	ProductName string
	Price       string
}

func ProductFormOf(p domain.Product) ProductForm {
	return ProductForm{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Price:       p.Price.String(),
	}
}

func (f ProductForm) Build() (domain.Product, error) {
	id := domain.NormalizeID(f.ProductID)
	name := strings.TrimSpace(f.ProductName)
	raw := strings.TrimSpace(f.Price)
	if id == "" || name == "" || raw == "" {
		return domain.Product{}, domain.NewValidationError("", "product id, name and price are required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		return domain.Product{}, domain.NewValidationError("price", "price must be a positive number")
	}
	return domain.Product{ProductID: id, ProductName: name, Price: price}, nil
}

// SaveCustomer validates f and creates the customer, or updates the one
// stored under originalID when it is set.
func SaveCustomer(ctx context.Context, saver Saver[domain.Customer], f CustomerForm, originalID string) (domain.Customer, error) {
	c, err := f.Build()
	if err != nil {
		return domain.Customer{}, err
	}
	return c, save(ctx, saver, c, originalID)
}

// SaveProduct validates f and creates the product, or updates the one
// stored under originalID when it is set.
func SaveProduct(ctx context.Context, saver Saver[domain.Product], f ProductForm, originalID string) (domain.Product, error) {
	p, err := f.Build()
	if err != nil {
		return domain.Product{}, err
	}
	return p, save(ctx, saver, p, originalID)
}

func save[T domain.Entity](ctx context.Context, saver Saver[T], item T, originalID string) error {
	if originalID == "" {
		return saver.Add(ctx, item)
	}
	return saver.Update(ctx, originalID, item)
}

// DeletePrompt is the confirmation text shown before deleting a record.
func DeletePrompt(kind, label string) string {
	return fmt.Sprintf("Delete %s %q?", kind, label)
}
