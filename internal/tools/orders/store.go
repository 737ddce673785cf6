package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Order is the record the assistant reads back to a caller. The
// shipping_adress spelling is what assistant prompts already expect.
type Order struct {
	OrderNumber     string  `json:"order_number" example:"1"`
	CustomerName    string  `json:"customer_name" example:"John Doe"`
	OrderDate       string  `json:"order_date" example:"2021-01-01"`
	TotalAmount     float64 `json:"total_amount" example:"100"`
	Status          string  `json:"status" example:"pending"`
	ShippingAddress string  `json:"shipping_adress" example:"123 Main St, New York, NY 10001"`
}

var SampleOrder = Order{
	OrderNumber:     "1",
	CustomerName:    "John Doe",
	OrderDate:       "2021-01-01",
	TotalAmount:     100.00,
	Status:          "pending",
	ShippingAddress: "123 Main St, New York, NY 10001",
}

// Store is an in-memory order book; nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	orders   map[string]Order
	fallback string
}

// NewStore seeds the store; the first order doubles as the answer to
// lookups that name no order.
func NewStore(seed ...Order) *Store {
	s := &Store{orders: make(map[string]Order)}
	for _, o := range seed {
		s.Put(o)
	}
	return s
}

func (s *Store) Put(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(o.OrderNumber)
	if s.fallback == "" {
		s.fallback = key
	}
	s.orders[key] = o
}

func (s *Store) Get(number string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[strings.TrimSpace(number)]
	return o, ok
}

func (s *Store) Default() (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[s.fallback]
	return o, ok
}

// Lookup resolves a tool call. An empty number yields the default order.
func (s *Store) Lookup(number string) (Order, error) {
	if strings.TrimSpace(number) == "" {
		if o, ok := s.Default(); ok {
			return o, nil
		}
		return Order{}, fmt.Errorf("no orders on file")
	}
	if o, ok := s.Get(number); ok {
		return o, nil
	}
	return Order{}, fmt.Errorf("order %s not found", strings.TrimSpace(number))
}

// LookupArgs are the tool arguments. The service sends them as an object,
// OpenAI-style providers as a JSON encoded string; both are accepted.
type LookupArgs struct {
	OrderNumber string `json:"order_number"`
}

func ParseLookupArgs(raw json.RawMessage) (LookupArgs, error) {
	var args LookupArgs
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return args, nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return args, fmt.Errorf("decode arguments: %w", err)
		}
		if strings.TrimSpace(inner) == "" {
			return args, nil
		}
		raw = json.RawMessage(inner)
	}
	// numbers are accepted too, "order_number": 1; UseNumber keeps the
	// digits as sent instead of round-tripping through float64
	var loose map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&loose); err != nil {
		return args, fmt.Errorf("decode arguments: %w", err)
	}
	switch n := loose["order_number"].(type) {
	case string:
		args.OrderNumber = n
	case json.Number:
		args.OrderNumber = n.String()
	}
	return args, nil
}
