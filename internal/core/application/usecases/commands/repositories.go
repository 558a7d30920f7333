// Package commands contains the operations that change the staging ledger and
// the canonical orders. Every command follows the same shape: a validated
// command value, a handler that opens a unit of work per transaction, and a
// broadcast after commit.
package commands

import (
	"context"

	"orderdesk/internal/core/application/resolver"
	"orderdesk/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	EntryRepoFactory interface {
		EntryRepository() ports.EntryRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// EntryUoW manages transactions touching only the staging ledger.
	EntryUoW interface {
		TxManager
		EntryRepoFactory
	}

	EntryUoWFactory interface {
		Create() EntryUoW
	}

	// UoW spans entries, orders and the audit trail. Reconciliation and its
	// inverse need all three inside one transaction.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   entries := uow.EntryRepository()
	//   orders := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		EntryRepoFactory
		OrderRepoFactory
		AuditRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// EntryResolver resolves intake identifiers against master data.
	EntryResolver interface {
		ResolveKeys(ctx context.Context, keys resolver.Keys) (resolver.Resolution, error)
	}
)
