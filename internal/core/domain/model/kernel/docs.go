// Package kernel provides core domain primitives shared by the staging ledger
// and the canonical order model.
//
// The package includes:
//   - UUID: identifier value object for entries, orders and order lines
//   - ShipDate and BatchID: the civil ship date and the DDMMYYYY shipment-batch-id derived from it
//   - Snapshot: a resolved master-data reference (nullable id plus a frozen display label)
//   - Operator: the already-authenticated identity acting on a request
//   - Coerce helpers: lenient decimal parsing for partially-filled import rows
//
// Values are immutable and safe for concurrent use.
package kernel
