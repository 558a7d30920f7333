// Package order contains the canonical order aggregate produced by reconciliation.
//
// An Order groups every line shipped to one customer in one shipment batch
// (customer id + shipment-batch-id are unique together). Each OrderLine carries
// one product; (order, product) is unique as well.
//
// Totals are maintained incrementally: AddLine increases them by the new line's
// amount and quantity, UpdateLine replaces line values without touching them,
// RemoveLine decreases them. Callers must not expect totals to equal the sum of
// current line values after a line update.
//
// Fulfillment status:
//
//	awaiting_distribution ──> distributing ──> shipped ──> delivered
//
// Only orders still awaiting distribution may be unwound by bulk-delete-orders.
package order
