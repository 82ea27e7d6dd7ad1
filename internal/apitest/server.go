// Package apitest provides an in-memory stand-in for the remote REST api,
// served over httptest for client, store and composer tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughinvoice/internal/domain"
)

type failure struct {
	status int
	body   string
}

// Server is a fake api with call counters and failure injection.
type Server struct {
	*httptest.Server
	Echo *echo.Echo

	mu           sync.Mutex
	calls        map[string]int
	failures     map[string][]failure
	delay        time.Duration
	nextDetailID int64

	customers *collection[domain.Customer]
	products  *collection[domain.Product]
	invoices  *collection[domain.Invoice]
}

// NewServer starts a fake api. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		Echo:      echo.New(),
		calls:     make(map[string]int),
		failures:  make(map[string][]failure),
		customers: newCollection[domain.Customer](),
		products:  newCollection[domain.Product](),
		invoices:  newCollection[domain.Invoice](),
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	api := s.Echo.Group("/api")
	registerRoutes(s, api, "/Customer", s.customers, nil)
	registerRoutes(s, api, "/Product", s.products, nil)
	registerRoutes(s, api, "/Invoice", s.invoices, s.assignDetailIDs)

	s.Server = httptest.NewServer(s.Echo)
	return s
}

// BaseURL is the api root to hand to the client configuration.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Calls returns how many requests reached method+path, path being the
// resource root such as "/Invoice".
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, path)]
}

// TotalCalls counts every request received.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// FailNext makes the next request to method+path answer status with body.
// Repeated calls queue further failures.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, path)
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// SetDelay holds every response for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

func (s *Server) SeedCustomers(items ...domain.Customer) {
	s.customers.seed(items)
}

func (s *Server) SeedProducts(items ...domain.Product) {
	s.products.seed(items)
}

func (s *Server) SeedInvoices(items ...domain.Invoice) {
	s.invoices.seed(items)
}

func (s *Server) Customers() []domain.Customer {
	return s.customers.list()
}

func (s *Server) Products() []domain.Product {
	return s.products.list()
}

func (s *Server) Invoices() []domain.Invoice {
	return s.invoices.list()
}

// track counts the request and returns a queued failure, if any.
func (s *Server) track(method, path string) (failure, bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, path)
	s.calls[key]++
	queue := s.failures[key]
	if len(queue) == 0 {
		return failure{}, false, s.delay
	}
	f := queue[0]
	s.failures[key] = queue[1:]
	return f, true, s.delay
}

// assignDetailIDs gives unsaved invoice lines a server side id.
func (s *Server) assignDetailIDs(inv *domain.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range inv.Details {
		if inv.Details[i].InvoiceDetailID == nil {
			s.nextDetailID++
			id := s.nextDetailID
			inv.Details[i].InvoiceDetailID = &id
		}
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errorBody{Code: code, Message: message})
}

func registerRoutes[T domain.Entity](s *Server, g *echo.Group, path string, col *collection[T], beforeSave func(*T)) {
	guard := func(method string, next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f, failed, delay := s.track(method, path)
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-c.Request().Context().Done():
					return nil
				}
			}
			if failed {
				return c.String(f.status, f.body)
			}
			return next(c)
		}
	}

	g.GET(path, guard(http.MethodGet, func(c echo.Context) error {
		return c.JSON(http.StatusOK, col.list())
	}))

	g.POST(path, guard(http.MethodPost, func(c echo.Context) error {
		var item T
		if err := c.Bind(&item); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse record")
		}
		if item.Key() == "" {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Identifier is required")
		}
		if beforeSave != nil {
			beforeSave(&item)
		}
		if !col.insert(item) {
			return fail(c, http.StatusConflict, "DUPLICATE", "Record already exists")
		}
		return c.JSON(http.StatusCreated, item)
	}))

	g.PUT(path+"/:id", guard(http.MethodPut, func(c echo.Context) error {
		id := c.Param("id")
		var item T
		if err := c.Bind(&item); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse record")
		}
		if beforeSave != nil {
			beforeSave(&item)
		}
		if !col.replace(id, item) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
		}
		return c.NoContent(http.StatusNoContent)
	}))

	g.DELETE(path+"/:id", guard(http.MethodDelete, func(c echo.Context) error {
		if !col.remove(c.Param("id")) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
		}
		return c.NoContent(http.StatusNoContent)
	}))
}
