package session

import (
	"context"
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/toughinvoice/internal/apiclient"
	"github.com/talkincode/toughinvoice/internal/composer"
	"github.com/talkincode/toughinvoice/internal/domain"
	"github.com/talkincode/toughinvoice/internal/store"
	"golang.org/x/sync/errgroup"
)

// Session owns the entity stores of one user session. Screens receive it
// explicitly instead of reaching for shared globals.
type Session struct {
	bus       EventBus.Bus
	customers *store.CustomerStore
	products  *store.ProductStore
	invoices  *store.InvoiceStore
}

// Remotes groups the api resources backing a session.
type Remotes struct {
	Customers apiclient.Resource[domain.Customer]
	Products  apiclient.Resource[domain.Product]
	Invoices  apiclient.Resource[domain.Invoice]
}

// RemotesOf binds the resources of an api client.
func RemotesOf(client *apiclient.Client) Remotes {
	return Remotes{
		Customers: client.Customers(),
		Products:  client.Products(),
		Invoices:  client.Invoices(),
	}
}

// New creates a session with empty stores; nothing is fetched until asked.
func New(remotes Remotes, bus EventBus.Bus) *Session {
	if bus == nil {
		bus = EventBus.New()
	}
	return &Session{
		bus:       bus,
		customers: store.NewCustomerStore(remotes.Customers, bus),
		products:  store.NewProductStore(remotes.Products, bus),
		invoices:  store.NewInvoiceStore(remotes.Invoices, bus),
	}
}

func (s *Session) Bus() EventBus.Bus {
	return s.bus
}

func (s *Session) Customers() *store.CustomerStore {
	return s.customers
}

func (s *Session) Products() *store.ProductStore {
	return s.products
}

func (s *Session) Invoices() *store.InvoiceStore {
	return s.invoices
}

// LoadInvoiceForm fetches customers and products side by side, the data an
// invoice form needs before lines can be staged. One failing fetch does not
// cancel the other.
func (s *Session) LoadInvoiceForm(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.customers.FetchAll(ctx) })
	g.Go(func() error { return s.products.FetchAll(ctx) })
	return g.Wait()
}

// Refresh fetches every store. Each failure is also kept on its store.
func (s *Session) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.customers.FetchAll(ctx) })
	g.Go(func() error { return s.products.FetchAll(ctx) })
	g.Go(func() error { return s.invoices.FetchAll(ctx) })
	return g.Wait()
}

// NewInvoice starts composing a fresh invoice.
func (s *Session) NewInvoice(opts ...composer.Option) *composer.Composer {
	return composer.New(s.invoices, s.customers, s.products, opts...)
}

// EditInvoice starts editing the cached invoice stored under id.
func (s *Session) EditInvoice(id string, opts ...composer.Option) (*composer.Composer, error) {
	existing, ok := s.invoices.Find(id)
	if !ok {
		return nil, fmt.Errorf("invoice %s is not loaded", id)
	}
	return composer.NewEdit(s.invoices, s.customers, s.products, existing, opts...), nil
}
