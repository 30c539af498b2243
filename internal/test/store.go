package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/domain/repository"
)

type productRecord struct {
	Name      string
	BasePrice decimal.Decimal
	Active    bool
}

type storeState struct {
	customers map[int64]model.Customer
	products  map[int64]productRecord
	variants  map[int64]model.ProductVariant
	orders    map[int64]model.Order
	items     []model.OrderLineItem
	history   []model.OrderStatusHistoryEntry
	logs      []model.InventoryLogEntry
	payments  map[int64]model.PaymentTransaction
	nextID    int64
}

func (s *storeState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *storeState) clone() storeState {
	c := storeState{
		customers: make(map[int64]model.Customer, len(s.customers)),
		products:  make(map[int64]productRecord, len(s.products)),
		variants:  make(map[int64]model.ProductVariant, len(s.variants)),
		orders:    make(map[int64]model.Order, len(s.orders)),
		items:     append([]model.OrderLineItem(nil), s.items...),
		history:   append([]model.OrderStatusHistoryEntry(nil), s.history...),
		logs:      append([]model.InventoryLogEntry(nil), s.logs...),
		payments:  make(map[int64]model.PaymentTransaction, len(s.payments)),
		nextID:    s.nextID,
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

// Store is an in-memory transactional implementation of repository.Factory and repository.UnitOfWork.
// Transactions run one at a time against a private copy which replaces the shared state on commit.
// Stock changes are the exception: like a conditional UPDATE they apply to the committed row under
// rowMu, so a sale committed by someone else mid-transaction is seen at write time.
type Store struct {
	mu    sync.Mutex
	rowMu sync.Mutex
	state storeState

	// FailOn makes the named repository operation (for example "payments.Create") return the error.
	FailOn map[string]error
	// OnStep is called before every repository operation inside a transaction.
	OnStep func(op string)
	// Commits counts successful transactions.
	Commits int
	// HealthErr is returned by HealthCheck.
	HealthErr error
}

// NewStore constructs an empty store.
func NewStore() *Store {
	s := &Store{}
	s.state = (&storeState{}).clone()
	return s
}

// StoreDump is a copy of the committed state.
type StoreDump struct {
	Customers map[int64]model.Customer
	Variants  map[int64]model.ProductVariant
	Orders    map[int64]model.Order
	Items     []model.OrderLineItem
	History   []model.OrderStatusHistoryEntry
	Logs      []model.InventoryLogEntry
	Payments  map[int64]model.PaymentTransaction
}

// Dump returns a copy of the committed state.
func (s *Store) Dump() StoreDump {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowMu.Lock()
	defer s.rowMu.Unlock()
	c := s.state.clone()
	return StoreDump{
		Customers: c.customers,
		Variants:  c.variants,
		Orders:    c.orders,
		Items:     c.items,
		History:   c.history,
		Logs:      c.logs,
		Payments:  c.payments,
	}
}

// AddProduct seeds a product and returns its id.
func (s *Store) AddProduct(name string, basePrice string, active bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.state.id()
	s.state.products[id] = productRecord{Name: name, BasePrice: decimal.RequireFromString(basePrice), Active: active}
	return id
}

// AddVariant seeds a variant of productID and returns its id.
func (s *Store) AddVariant(productID int64, sku string, stock int, priceDelta string, active bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowMu.Lock()
	defer s.rowMu.Unlock()
	id := s.state.id()
	s.state.variants[id] = model.ProductVariant{
		ID:            id,
		ProductID:     productID,
		SKU:           sku,
		StockQuantity: stock,
		PriceDelta:    decimal.RequireFromString(priceDelta),
		Active:        active,
		UpdatedAt:     time.Now(),
	}
	return id
}

// AddCustomer seeds a customer and returns its id.
func (s *Store) AddCustomer(c model.Customer) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.state.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.state.customers[c.ID] = c
	return c.ID
}

// WithinTransaction runs fn against a copy of the state and publishes the copy when fn succeeds.
func (s *Store) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.rowMu.Lock()
	st := s.state.clone()
	s.rowMu.Unlock()
	tx := &txn{}
	if err := fn(view{store: s, st: &st, tx: tx}); err != nil {
		s.rollback(tx)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.rollback(tx)
		return err
	}

	s.rowMu.Lock()
	for id, committed := range s.state.variants {
		v := st.variants[id]
		v.StockQuantity, v.UpdatedAt = committed.StockQuantity, committed.UpdatedAt
		st.variants[id] = v
	}
	s.state = st
	s.rowMu.Unlock()
	s.Commits++
	return nil
}

// txn remembers stock changes written through to committed rows so rollback can revert them.
type txn struct {
	stock []stockWrite
}

type stockWrite struct {
	variantID int64
	delta     int
}

func (s *Store) rollback(tx *txn) {
	s.rowMu.Lock()
	defer s.rowMu.Unlock()
	for i := len(tx.stock) - 1; i >= 0; i-- {
		w := tx.stock[i]
		v := s.state.variants[w.variantID]
		v.StockQuantity -= w.delta
		s.state.variants[w.variantID] = v
	}
}

// HealthCheck reports HealthErr.
func (s *Store) HealthCheck(context.Context) error {
	return s.HealthErr
}

func (s *Store) Customers() repository.CustomerRepository     { return view{store: s}.Customers() }
func (s *Store) Variants() repository.VariantRepository       { return view{store: s}.Variants() }
func (s *Store) Orders() repository.OrderRepository           { return view{store: s}.Orders() }
func (s *Store) History() repository.StatusHistoryRepository  { return view{store: s}.History() }
func (s *Store) Inventory() repository.InventoryLogRepository { return view{store: s}.Inventory() }
func (s *Store) Payments() repository.PaymentRepository       { return view{store: s}.Payments() }

// view binds repositories either to a transaction copy or, when st is nil, to the shared state.
type view struct {
	store *Store
	st    *storeState
	tx    *txn
}

func (v view) do(op string, fn func(*storeState) error) error {
	if v.st == nil {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
		v.store.rowMu.Lock()
		defer v.store.rowMu.Unlock()
		if err := v.store.FailOn[op]; err != nil {
			return err
		}
		return fn(&v.store.state)
	}
	if v.store.OnStep != nil {
		v.store.OnStep(op)
	}
	if err := v.store.FailOn[op]; err != nil {
		return err
	}
	return fn(v.st)
}

func (v view) Customers() repository.CustomerRepository     { return customerRepo{v} }
func (v view) Variants() repository.VariantRepository       { return variantRepo{v} }
func (v view) Orders() repository.OrderRepository           { return orderRepo{v} }
func (v view) History() repository.StatusHistoryRepository  { return historyRepo{v} }
func (v view) Inventory() repository.InventoryLogRepository { return inventoryRepo{v} }
func (v view) Payments() repository.PaymentRepository       { return paymentRepo{v} }

type customerRepo struct{ v view }

func (r customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.v.do("customers.Create", func(st *storeState) error {
		c.ID = st.id()
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
		st.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepo) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var out *model.Customer
	err := r.v.do("customers.GetByID", func(st *storeState) error {
		c, ok := st.customers[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r customerRepo) UpdateContact(ctx context.Context, id int64, info model.ContactInfo) (*model.Customer, error) {
	var out *model.Customer
	err := r.v.do("customers.UpdateContact", func(st *storeState) error {
		c, ok := st.customers[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		c.FirstName, c.LastName, c.Email, c.Phone = info.FirstName, info.LastName, info.Email, info.Phone
		c.UpdatedAt = time.Now()
		st.customers[id] = c
		out = &c
		return nil
	})
	return out, err
}

type variantRepo struct{ v view }

func (r variantRepo) Snapshots(ctx context.Context, ids []int64) (map[int64]model.VariantSnapshot, error) {
	out := make(map[int64]model.VariantSnapshot, len(ids))
	err := r.v.do("variants.Snapshots", func(st *storeState) error {
		for _, id := range ids {
			variant, ok := st.variants[id]
			if !ok {
				continue
			}
			product := st.products[variant.ProductID]
			out[id] = model.VariantSnapshot{
				Variant:       variant,
				ProductName:   product.Name,
				BasePrice:     product.BasePrice,
				ProductActive: product.Active,
			}
		}
		return nil
	})
	return out, err
}

// AdjustStock applies the conditional update to the committed row. Outside a transaction it only
// takes the row lock, so an OnStep hook may use it to commit a competing sale.
func (r variantRepo) AdjustStock(ctx context.Context, variantID int64, delta int) (model.StockChange, error) {
	s := r.v.store
	change := model.StockChange{VariantID: variantID}
	if r.v.st != nil && s.OnStep != nil {
		s.OnStep("variants.AdjustStock")
	}
	if err := s.FailOn["variants.AdjustStock"]; err != nil {
		return change, err
	}

	s.rowMu.Lock()
	defer s.rowMu.Unlock()
	variant, ok := s.state.variants[variantID]
	if !ok {
		return change, &domainErrors.VariantNotFoundError{VariantID: variantID}
	}
	if variant.StockQuantity+delta < 0 {
		return change, &domainErrors.InsufficientStockError{Shortages: []model.StockShortage{{
			VariantID: variantID,
			SKU:       variant.SKU,
			Requested: -delta,
			Available: variant.StockQuantity,
		}}}
	}
	change.Previous = variant.StockQuantity
	variant.StockQuantity += delta
	variant.UpdatedAt = time.Now()
	change.New = variant.StockQuantity
	s.state.variants[variantID] = variant

	if r.v.st != nil {
		r.v.st.variants[variantID] = variant
		r.v.tx.stock = append(r.v.tx.stock, stockWrite{variantID: variantID, delta: delta})
	}
	return change, nil
}

type orderRepo struct{ v view }

func (r orderRepo) ReserveNumber(ctx context.Context, number string) (bool, error) {
	free := true
	err := r.v.do("orders.ReserveNumber", func(st *storeState) error {
		for _, o := range st.orders {
			if o.Number == number {
				free = false
			}
		}
		return nil
	})
	return free, err
}

func (r orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.v.do("orders.Create", func(st *storeState) error {
		for _, existing := range st.orders {
			if existing.Number == o.Number {
				return domainErrors.ErrAlreadyExists
			}
		}
		o.ID = st.id()
		o.CreatedAt = time.Now()
		o.UpdatedAt = o.CreatedAt
		st.orders[o.ID] = *o
		return nil
	})
}

func (r orderRepo) AddItem(ctx context.Context, item *model.OrderLineItem) error {
	return r.v.do("orders.AddItem", func(st *storeState) error {
		item.ID = st.id()
		st.items = append(st.items, *item)
		return nil
	})
}

func (r orderRepo) get(op string, match func(model.Order) bool) (*model.Order, error) {
	var out *model.Order
	err := r.v.do(op, func(st *storeState) error {
		for _, o := range st.orders {
			if match(o) {
				o := o
				out = &o
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r orderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.get("orders.GetByID", func(o model.Order) bool { return o.ID == id })
}

func (r orderRepo) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.get("orders.GetByNumber", func(o model.Order) bool { return o.Number == number })
}

func (r orderRepo) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	return r.get("orders.GetForUpdate", func(o model.Order) bool { return o.ID == id })
}

func (r orderRepo) Items(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	var out []model.OrderLineItem
	err := r.v.do("orders.Items", func(st *storeState) error {
		for _, item := range st.items {
			if item.OrderID == orderID {
				out = append(out, item)
			}
		}
		return nil
	})
	return out, err
}

func (r orderRepo) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	var out *model.Order
	err := r.v.do("orders.UpdateStatus", func(st *storeState) error {
		o, ok := st.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = time.Now()
		if status == model.OrderStatusDelivered {
			now := o.UpdatedAt
			o.CompletedAt = &now
		}
		st.orders[id] = o
		out = &o
		return nil
	})
	return out, err
}

func (r orderRepo) UpdatePayment(ctx context.Context, id int64, status model.PaymentStatus, reference *string) error {
	return r.v.do("orders.UpdatePayment", func(st *storeState) error {
		o, ok := st.orders[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		o.PaymentStatus = status
		if reference != nil {
			o.PaymentReference = reference
		}
		o.UpdatedAt = time.Now()
		st.orders[id] = o
		return nil
	})
}

type historyRepo struct{ v view }

func (r historyRepo) Append(ctx context.Context, e *model.OrderStatusHistoryEntry) error {
	return r.v.do("history.Append", func(st *storeState) error {
		e.ID = st.id()
		e.CreatedAt = time.Now()
		st.history = append(st.history, *e)
		return nil
	})
}

func (r historyRepo) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderStatusHistoryEntry, error) {
	var out []model.OrderStatusHistoryEntry
	err := r.v.do("history.ListByOrder", func(st *storeState) error {
		for _, e := range st.history {
			if e.OrderID == orderID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

type inventoryRepo struct{ v view }

func (r inventoryRepo) Append(ctx context.Context, e *model.InventoryLogEntry) error {
	return r.v.do("inventory.Append", func(st *storeState) error {
		e.ID = st.id()
		e.CreatedAt = time.Now()
		st.logs = append(st.logs, *e)
		return nil
	})
}

func (r inventoryRepo) ListByVariant(ctx context.Context, variantID int64) ([]model.InventoryLogEntry, error) {
	var out []model.InventoryLogEntry
	err := r.v.do("inventory.ListByVariant", func(st *storeState) error {
		for _, e := range st.logs {
			if e.VariantID == variantID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

type paymentRepo struct{ v view }

func (r paymentRepo) Create(ctx context.Context, p *model.PaymentTransaction) error {
	return r.v.do("payments.Create", func(st *storeState) error {
		for _, existing := range st.payments {
			if existing.OrderID == p.OrderID {
				return domainErrors.ErrAlreadyExists
			}
		}
		p.ID = st.id()
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
		if o, ok := st.orders[p.OrderID]; ok {
			p.OrderNumber = o.Number
		}
		st.payments[p.ID] = *p
		return nil
	})
}

func (r paymentRepo) GetByOrder(ctx context.Context, orderID int64) (*model.PaymentTransaction, error) {
	var out *model.PaymentTransaction
	err := r.v.do("payments.GetByOrder", func(st *storeState) error {
		for _, p := range st.payments {
			if p.OrderID == orderID {
				p := p
				out = &p
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r paymentRepo) AttachReference(ctx context.Context, id int64, reference string) error {
	return r.v.do("payments.AttachReference", func(st *storeState) error {
		p, ok := st.payments[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		p.Reference = &reference
		p.UpdatedAt = time.Now()
		st.payments[id] = p
		return nil
	})
}

func (r paymentRepo) SelectPendingForVerification(ctx context.Context, limit int) ([]model.PaymentTransaction, error) {
	var out []model.PaymentTransaction
	err := r.v.do("payments.SelectPendingForVerification", func(st *storeState) error {
		for _, p := range st.payments {
			if p.Status == model.PaymentStatusPending && p.Reference != nil {
				out = append(out, p)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		if len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r paymentRepo) UpdateStatus(ctx context.Context, id int64, status model.PaymentStatus, verification []byte) error {
	return r.v.do("payments.UpdateStatus", func(st *storeState) error {
		p, ok := st.payments[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		p.Status = status
		if verification != nil {
			p.Verification = verification
		}
		p.UpdatedAt = time.Now()
		if status.Final() {
			now := p.UpdatedAt
			p.VerifiedAt = &now
		}
		st.payments[id] = p
		return nil
	})
}
