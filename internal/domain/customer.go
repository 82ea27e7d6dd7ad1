package domain

// Customer represents an invoice recipient
type Customer struct {
	CustomerID   string  `json:"customerID"`
	CustomerName string  `json:"customerName"`
	Phone        *string `json:"phone"` // nil when not provided
}

func (c Customer) Key() string {
	return c.CustomerID
}

// PhoneOrEmpty returns the phone number, or "" when unset.
func (c Customer) PhoneOrEmpty() string {
	if c.Phone == nil {
		return ""
	}
	return *c.Phone
}
