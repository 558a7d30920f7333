// Package resolver maps free-text product codes and customer names (and bare
// ids) onto master data in one batched lookup per entity type.
//
// Misses are not errors: they are simply absent from the Resolution and the
// caller keeps the raw text as a denormalized label.
package resolver

import (
	"context"
	"strings"
	"time"

	"orderdesk/internal/core/ports"

	"github.com/graph-gophers/dataloader/v7"
)

// batchWait bounds how long a loader waits for keys before dispatching a
// partial batch. Full batches dispatch immediately.
const batchWait = 25 * time.Millisecond

type ProductRef struct {
	ID       int64
	Code     string
	FullName string
	Category string
}

type CustomerRef struct {
	ID       int64
	Name     string
	District string
	Location string
}

// Keys is the raw lookup input. Duplicates and blanks are fine.
type Keys struct {
	ProductCodes  []string
	CustomerNames []string
	ProductIDs    []int64
	CustomerIDs   []int64
}

// Resolution holds what was found. Customer names are keyed lowercased.
type Resolution struct {
	Products      map[string]ProductRef
	Customers     map[string]CustomerRef
	ProductsByID  map[int64]ProductRef
	CustomersByID map[int64]CustomerRef
}

func newResolution() Resolution {
	return Resolution{
		Products:      map[string]ProductRef{},
		Customers:     map[string]CustomerRef{},
		ProductsByID:  map[int64]ProductRef{},
		CustomersByID: map[int64]CustomerRef{},
	}
}

func (r Resolution) Product(code string) (ProductRef, bool) {
	p, ok := r.Products[strings.TrimSpace(code)]
	return p, ok
}

func (r Resolution) Customer(name string) (CustomerRef, bool) {
	c, ok := r.Customers[NormalizeName(name)]
	return c, ok
}

func (r Resolution) ProductByID(id int64) (ProductRef, bool) {
	p, ok := r.ProductsByID[id]
	return p, ok
}

func (r Resolution) CustomerByID(id int64) (CustomerRef, bool) {
	c, ok := r.CustomersByID[id]
	return c, ok
}

// NormalizeName is the customer matching key: trimmed and lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolver runs the two-pass resolution: distinct keys first, then one
// batched lookup per entity type through a dataloader sized to the key set.
type Resolver struct {
	reader ports.MasterDataReader
}

func New(reader ports.MasterDataReader) *Resolver {
	return &Resolver{reader: reader}
}

// Resolve looks up product codes (exact match) and customer names (case-insensitive).
func (r *Resolver) Resolve(ctx context.Context, productCodes []string, customerNames []string) (Resolution, error) {
	return r.ResolveKeys(ctx, Keys{ProductCodes: productCodes, CustomerNames: customerNames})
}

// ResolveKeys resolves every kind of key in one pass. A store failure is
// returned as is; a key that matches nothing is just missing from the result.
func (r *Resolver) ResolveKeys(ctx context.Context, keys Keys) (Resolution, error) {
	res := newResolution()

	products, err := loadAll(ctx, distinctStrings(keys.ProductCodes, strings.TrimSpace), r.reader.ProductsByCodes,
		func(p ports.Product) string { return p.Code })
	if err != nil {
		return Resolution{}, err
	}
	for code, p := range products {
		res.Products[code] = productRef(p)
		res.ProductsByID[p.ID] = productRef(p)
	}

	customers, err := loadAll(ctx, distinctStrings(keys.CustomerNames, NormalizeName), r.reader.CustomersByNames,
		func(c ports.Customer) string { return NormalizeName(c.Name) })
	if err != nil {
		return Resolution{}, err
	}
	for name, c := range customers {
		res.Customers[name] = customerRef(c)
		res.CustomersByID[c.ID] = customerRef(c)
	}

	productIDs := distinctIDs(keys.ProductIDs, func(id int64) bool { _, ok := res.ProductsByID[id]; return ok })
	productsByID, err := loadAll(ctx, productIDs, r.reader.ProductsByIDs, func(p ports.Product) int64 { return p.ID })
	if err != nil {
		return Resolution{}, err
	}
	for id, p := range productsByID {
		res.ProductsByID[id] = productRef(p)
	}

	customerIDs := distinctIDs(keys.CustomerIDs, func(id int64) bool { _, ok := res.CustomersByID[id]; return ok })
	customersByID, err := loadAll(ctx, customerIDs, r.reader.CustomersByIDs, func(c ports.Customer) int64 { return c.ID })
	if err != nil {
		return Resolution{}, err
	}
	for id, c := range customersByID {
		res.CustomersByID[id] = customerRef(c)
	}

	return res, nil
}

// loadAll pushes keys through a batched loader whose capacity equals the key
// count, so the whole set reaches fetch as a single batch.
func loadAll[K comparable, V any](
	ctx context.Context,
	keys []K,
	fetch func(context.Context, []K) ([]V, error),
	keyOf func(V) K,
) (map[K]V, error) {
	found := make(map[K]V, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	batch := func(ctx context.Context, batchKeys []K) []*dataloader.Result[*V] {
		rows, err := fetch(ctx, batchKeys)
		if err != nil {
			return errorResults[*V](len(batchKeys), err)
		}
		byKey := make(map[K]*V, len(rows))
		for i := range rows {
			byKey[keyOf(rows[i])] = &rows[i]
		}
		results := make([]*dataloader.Result[*V], 0, len(batchKeys))
		for _, k := range batchKeys {
			results = append(results, &dataloader.Result[*V]{Data: byKey[k]})
		}
		return results
	}

	loader := dataloader.NewBatchedLoader(batch,
		dataloader.WithBatchCapacity[K, *V](len(keys)),
		dataloader.WithWait[K, *V](batchWait),
	)

	values, loadErrs := loader.LoadMany(ctx, keys)()
	for _, err := range loadErrs {
		if err != nil {
			return nil, err
		}
	}
	for i, v := range values {
		if v != nil {
			found[keys[i]] = *v
		}
	}
	return found, nil
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

func distinctStrings(values []string, normalize func(string) string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = normalize(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func distinctIDs(values []int64, known func(int64) bool) []int64 {
	seen := make(map[int64]struct{}, len(values))
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if v <= 0 || known(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func productRef(p ports.Product) ProductRef {
	return ProductRef{ID: p.ID, Code: p.Code, FullName: p.FullName, Category: p.Category}
}

func customerRef(c ports.Customer) CustomerRef {
	return CustomerRef{ID: c.ID, Name: c.Name, District: c.District, Location: c.Location}
}
