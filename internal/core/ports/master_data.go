package ports

import "context"

// Customer is the read-only master data view of a customer.
type Customer struct {
	ID       int64
	Name     string
	District string
	Location string
}

// Product is the read-only master data view of a product.
type Product struct {
	ID       int64
	Code     string
	FullName string
	Category string
}

// MasterDataReader looks up customers and products. This service never
// writes master data. Each method issues one query for the whole key set and
// returns only the rows found.
type MasterDataReader interface {
	ProductsByCodes(ctx context.Context, codes []string) ([]Product, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]Product, error)

	// CustomersByNames matches case-insensitively; names are expected lowercased.
	CustomersByNames(ctx context.Context, names []string) ([]Customer, error)
	CustomersByIDs(ctx context.Context, ids []int64) ([]Customer, error)
}
