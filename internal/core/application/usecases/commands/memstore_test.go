package commands_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"orderdesk/internal/core/application/usecases/commands"
	"orderdesk/internal/core/domain/model/entry"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/domain/model/order"
	"orderdesk/internal/core/ports"
	"orderdesk/internal/pkg/clock"
	"orderdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the database. Begin snapshots the
// store and an uncommitted Rollback restores the snapshot, so handlers see the
// same transaction semantics as with PostgreSQL (minus isolation, tests are
// sequential).
type memStore struct {
	mu sync.Mutex

	entries   map[kernel.UUID]entry.State
	orders    map[kernel.UUID]*order.Order
	lines     map[kernel.UUID]*order.OrderLine
	returns   []ports.AssemblyReturn
	deletions []ports.OrderDeletion

	// raceOrder/raceLine are inserted by a "concurrent writer" right after the
	// first order lookup misses.
	raceOrder *order.Order
	raceLine  *order.OrderLine
}

func newMemStore() *memStore {
	return &memStore{
		entries: make(map[kernel.UUID]entry.State),
		orders:  make(map[kernel.UUID]*order.Order),
		lines:   make(map[kernel.UUID]*order.OrderLine),
	}
}

type memSnapshot struct {
	entries   map[kernel.UUID]entry.State
	orders    map[kernel.UUID]*order.Order
	lines     map[kernel.UUID]*order.OrderLine
	returns   []ports.AssemblyReturn
	deletions []ports.OrderDeletion
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		entries:   maps.Clone(s.entries),
		orders:    make(map[kernel.UUID]*order.Order, len(s.orders)),
		lines:     make(map[kernel.UUID]*order.OrderLine, len(s.lines)),
		returns:   slices.Clone(s.returns),
		deletions: slices.Clone(s.deletions),
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	for id, l := range s.lines {
		snap.lines[id] = cloneLine(l)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = snap.entries
	s.orders = snap.orders
	s.lines = snap.lines
	s.returns = snap.returns
	s.deletions = snap.deletions
}

func cloneOrder(o *order.Order) *order.Order {
	c, err := order.RestoreOrder(o.ID(), o.CustomerID(), o.ShipDate(), o.Status(), o.DispatchDay(),
		o.TotalAmount(), o.TotalWeight(), o.CreatedAt(), o.UpdatedAt())
	if err != nil {
		panic(err)
	}
	return c
}

func cloneLine(l *order.OrderLine) *order.OrderLine {
	c, err := order.RestoreOrderLine(l.ID(), l.OrderID(), l.ProductID(), l.Values(), l.Amount())
	if err != nil {
		panic(err)
	}
	return c
}

func (s *memStore) putEntry(t *testing.T, e *entry.Entry) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID()] = e.State()
}

func (s *memStore) entry(t *testing.T, id kernel.UUID) *entry.Entry {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[id]
	require.True(t, ok, "entry %s not stored", id)
	e, err := entry.RestoreEntry(st)
	require.NoError(t, err)
	return e
}

func (s *memStore) hasEntry(id kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

func (s *memStore) allOrders() []*order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.orders))
}

func (s *memStore) allLines() []*order.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.lines))
}

func (s *memStore) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	require.True(t, ok, "order %s not stored", id)
	return cloneOrder(o)
}

func (s *memStore) setOrderStatus(t *testing.T, id kernel.UUID, status order.Status) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	restored, err := order.RestoreOrder(o.ID(), o.CustomerID(), o.ShipDate(), status, o.DispatchDay(),
		o.TotalAmount(), o.TotalWeight(), o.CreatedAt(), o.UpdatedAt())
	require.NoError(t, err)
	s.orders[id] = restored
}

// memUoW satisfies both commands.UoW and commands.EntryUoW.
type memUoW struct {
	store     *memStore
	snap      *memSnapshot
	committed bool
}

func (u *memUoW) Begin(_ context.Context) error {
	snap := u.store.snapshot()
	u.snap = &snap
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	u.committed = true
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	if u.committed || u.snap == nil {
		return nil
	}
	u.store.restore(*u.snap)
	u.snap = nil
	return nil
}

func (u *memUoW) EntryRepository() ports.EntryRepository { return memEntries{u.store} }
func (u *memUoW) OrderRepository() ports.OrderRepository { return memOrders{u.store} }
func (u *memUoW) AuditRepository() ports.AuditRepository { return memAudit{u.store} }

type memUoWFactory struct{ store *memStore }

func (f memUoWFactory) Create() commands.UoW { return &memUoW{store: f.store} }

type memEntryUoWFactory struct{ store *memStore }

func (f memEntryUoWFactory) Create() commands.EntryUoW { return &memUoW{store: f.store} }

type memEntries struct{ s *memStore }

func (r memEntries) Add(_ context.Context, e *entry.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[e.ID()]; ok {
		return errs.NewConflictError("entry", e.ID())
	}
	r.s.entries[e.ID()] = e.State()
	return nil
}

func (r memEntries) AddMany(ctx context.Context, entries []*entry.Entry) error {
	for _, e := range entries {
		if err := r.Add(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r memEntries) Update(_ context.Context, e *entry.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[e.ID()]; !ok {
		return errs.NewObjectNotFoundError("entry", e.ID())
	}
	if lineID := e.OrderLineID(); lineID != nil {
		for id, st := range r.s.entries {
			if id != e.ID() && st.OrderLineID != nil && *st.OrderLineID == *lineID {
				return errs.NewConflictError("orderLineId", *lineID)
			}
		}
	}
	r.s.entries[e.ID()] = e.State()
	return nil
}

func (r memEntries) Get(_ context.Context, id kernel.UUID) (*entry.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.entries[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("entry", id)
	}
	return entry.RestoreEntry(st)
}

func (r memEntries) FindByOrderLine(_ context.Context, lineID kernel.UUID) (*entry.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.entries {
		if st.OrderLineID != nil && *st.OrderLineID == lineID {
			return entry.RestoreEntry(st)
		}
	}
	return nil, errs.NewObjectNotFoundError("entry", lineID)
}

func (r memEntries) Find(_ context.Context, f ports.EntryFilter) ([]*entry.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entry.Entry
	for _, st := range r.s.entries {
		if len(f.IDs) > 0 && !slices.Contains(f.IDs, st.ID) {
			continue
		}
		if f.From != nil && st.Fields.ShipDate.Before(*f.From) {
			continue
		}
		if f.To != nil && f.To.Before(st.Fields.ShipDate) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, st.Status) {
			continue
		}
		e, err := entry.RestoreEntry(st)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *entry.Entry) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return out, nil
}

func (r memEntries) Delete(_ context.Context, id kernel.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[id]; !ok {
		return errs.NewObjectNotFoundError("entry", id)
	}
	delete(r.s.entries, id)
	return nil
}

func (r memEntries) DeleteMany(_ context.Context, ids []kernel.UUID, keep ...entry.Status) ([]kernel.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted []kernel.UUID
	for _, id := range ids {
		st, ok := r.s.entries[id]
		if !ok || slices.Contains(keep, st.Status) {
			continue
		}
		delete(r.s.entries, id)
		deleted = append(deleted, id)
	}
	return deleted, nil
}

type memOrders struct{ s *memStore }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.CustomerID() == o.CustomerID() && existing.BatchID() == o.BatchID() {
			return errs.NewConflictError("order", o.ID())
		}
	}
	r.s.orders[o.ID()] = cloneOrder(o)
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return cloneOrder(o), nil
}

func (r memOrders) FindByCustomerBatch(_ context.Context, customerID int64, batchID kernel.BatchID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.orders {
		if o.CustomerID() == customerID && o.BatchID() == batchID {
			return cloneOrder(o), nil
		}
	}
	if r.s.raceOrder != nil {
		r.s.orders[r.s.raceOrder.ID()] = r.s.raceOrder
		if r.s.raceLine != nil {
			r.s.lines[r.s.raceLine.ID()] = r.s.raceLine
		}
		r.s.raceOrder, r.s.raceLine = nil, nil
	}
	return nil, errs.NewObjectNotFoundError("order", customerID)
}

func (r memOrders) Delete(_ context.Context, id kernel.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return errs.NewObjectNotFoundError("order", id)
	}
	delete(r.s.orders, id)
	return nil
}

func (r memOrders) AdjustTotals(_ context.Context, id kernel.UUID, amount, weight decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return errs.NewObjectNotFoundError("order", id)
	}
	adjusted, err := order.RestoreOrder(o.ID(), o.CustomerID(), o.ShipDate(), o.Status(), o.DispatchDay(),
		o.TotalAmount().Add(amount), o.TotalWeight().Add(weight), o.CreatedAt(), o.UpdatedAt())
	if err != nil {
		return err
	}
	r.s.orders[id] = adjusted
	return nil
}

func (r memOrders) AddLine(_ context.Context, l *order.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.lines {
		if existing.OrderID() == l.OrderID() && existing.ProductID() == l.ProductID() {
			return errs.NewConflictError("orderLine", l.ID())
		}
	}
	r.s.lines[l.ID()] = cloneLine(l)
	return nil
}

func (r memOrders) UpdateLine(_ context.Context, l *order.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[l.ID()]; !ok {
		return errs.NewObjectNotFoundError("orderLine", l.ID())
	}
	r.s.lines[l.ID()] = cloneLine(l)
	return nil
}

func (r memOrders) GetLine(_ context.Context, id kernel.UUID) (*order.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lines[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderLine", id)
	}
	return cloneLine(l), nil
}

func (r memOrders) FindLine(_ context.Context, orderID kernel.UUID, productID int64) (*order.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.lines {
		if l.OrderID() == orderID && l.ProductID() == productID {
			return cloneLine(l), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderLine", productID)
}

func (r memOrders) DeleteLine(_ context.Context, id kernel.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[id]; !ok {
		return errs.NewObjectNotFoundError("orderLine", id)
	}
	delete(r.s.lines, id)
	return nil
}

func (r memOrders) Lines(_ context.Context, orderID kernel.UUID) ([]*order.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*order.OrderLine
	for _, l := range r.s.lines {
		if l.OrderID() == orderID {
			out = append(out, cloneLine(l))
		}
	}
	return out, nil
}

func (r memOrders) CountLines(ctx context.Context, orderID kernel.UUID) (int64, error) {
	lines, err := r.Lines(ctx, orderID)
	return int64(len(lines)), err
}

type memAudit struct{ s *memStore }

func (r memAudit) RecordAssemblyReturn(_ context.Context, rec ports.AssemblyReturn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.returns = append(r.s.returns, rec)
	return nil
}

func (r memAudit) RecordOrderDeletion(_ context.Context, rec ports.OrderDeletion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deletions = append(r.s.deletions, rec)
	return nil
}

type publishedEvent struct {
	Room    string
	Event   string
	Payload ports.EntryEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, room, event string, payload ports.EntryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Event: event, Payload: payload})
	return p.err
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

var testNow = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func testClock() clock.Fixed {
	return clock.Fixed{At: testNow, Loc: time.UTC}
}

func testLogger() (logrus.FieldLogger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

func testOperator(t *testing.T) kernel.Operator {
	t.Helper()
	op, err := kernel.NewOperator("u-17", "Olga")
	require.NoError(t, err)
	return op
}

func shipDate(t *testing.T, s string) kernel.ShipDate {
	t.Helper()
	d, err := kernel.ParseShipDate(s)
	require.NoError(t, err)
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func int64Ptr(v int64) *int64 { return &v }

// entryFixture builds a forming entry for customer/product with the given
// price and shipped quantity.
func entryFixture(t *testing.T, date string, customerID, productID int64, price, shipped string) *entry.Entry {
	t.Helper()
	e, err := entry.NewEntry(kernel.NewUUID(), entry.Fields{
		ShipDate:    shipDate(t, date),
		PaymentType: "cash",
		Customer:    kernel.NewSnapshot(int64Ptr(customerID), "Customer"),
		Product:     kernel.NewSnapshot(int64Ptr(productID), "Product"),
		ProductCode: "P",
		Price:       dec(price),
		OrderedQty:  dec(shipped),
		ShippedQty:  dec(shipped),
	}, entry.Forming, testNow)
	require.NoError(t, err)
	return e
}
