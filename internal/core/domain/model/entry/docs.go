// Package entry contains the staging ledger aggregate: the summary entry.
//
// A summary entry is a single product line produced by sales intake or bulk
// import. It waits in the ledger until warehouse operators confirm it during
// assembly, at which point reconciliation links it to exactly one canonical
// order line.
//
// Lifecycle:
//
//	draft ──> forming ──> synced ──> rework
//	             ^           │          │
//	             └───────────┴──────────┘  (unlock)
//
// Business rules:
//   - ship date and a customer identity (id or name) are required
//   - the shipment-batch-id is always derived from the ship date
//   - sumWithRevaluation = price × shippedQty, recomputed from resulting values
//   - confirmedBy/confirmedAt are stamped only on the transition to synced
//   - return-from-assembly is allowed only while forming
package entry
