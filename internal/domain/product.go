package domain

import "github.com/shopspring/decimal"

// Product is a catalog item that can be placed on invoice lines
type Product struct {
	ProductID   string          `json:"productID"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"` // unit price in VND
}

func (p Product) Key() string {
	return p.ProductID
}

// LineTotal is the frozen total of a line holding qty units of p.
func (p Product) LineTotal(qty int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(qty)))
}
