// Package services provides domain services that span the staging ledger and
// the canonical order model.
//
// The package includes:
//   - LineReconciler: decides how a confirmed entry lands on an order line
//     (create order, create line, or update line) and applies the totals rule
package services
