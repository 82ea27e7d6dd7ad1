package store

import (
	"github.com/asaskevich/EventBus"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/domain"
)

const (
	TopicCustomers = "customers:changed"
	TopicProducts  = "products:changed"
	TopicInvoices  = "invoices:changed"
)

type (
	CustomerStore = Store[domain.Customer]
	ProductStore  = Store[domain.Product]
	InvoiceStore  = Store[domain.Invoice]
)

func NewCustomerStore(remote apiclient.Resource[domain.Customer], bus EventBus.Bus) *CustomerStore {
	return New[domain.Customer]("customers", TopicCustomers, remote, bus)
}

func NewProductStore(remote apiclient.Resource[domain.Product], bus EventBus.Bus) *ProductStore {
	return New[domain.Product]("products", TopicProducts, remote, bus)
}

func NewInvoiceStore(remote apiclient.Resource[domain.Invoice], bus EventBus.Bus) *InvoiceStore {
	return New[domain.Invoice]("invoices", TopicInvoices, remote, bus)
}
