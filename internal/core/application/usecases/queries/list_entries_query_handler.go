package queries

import (
	"context"

	"gorm.io/gorm"
)

// ListEntriesQueryHandler lists entries ordered by ship date, customer name
// and creation time.
type ListEntriesQueryHandler struct {
	db *gorm.DB
}

func NewListEntriesQueryHandler(db *gorm.DB) ListEntriesQueryHandler {
	return ListEntriesQueryHandler{db: db}
}

func (h ListEntriesQueryHandler) Handle(ctx context.Context, query ListEntriesQuery) ([]EntryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `SELECT ` + entryColumns + ` FROM summary_entries WHERE 1 = 1`
	args := make([]any, 0, 5)
	if query.from != nil {
		sql += ` AND ship_date >= ?`
		args = append(args, query.from.String())
	}
	if query.to != nil {
		sql += ` AND ship_date <= ?`
		args = append(args, query.to.String())
	}
	if len(query.statuses) > 0 {
		names := make([]string, 0, len(query.statuses))
		for _, s := range query.statuses {
			names = append(names, s.String())
		}
		sql += ` AND status IN ?`
		args = append(args, names)
	}
	if query.customerID != nil {
		sql += ` AND customer_id = ?`
		args = append(args, *query.customerID)
	}
	sql += ` ORDER BY ship_date, customer_name, created_at LIMIT ?`
	args = append(args, query.limit)

	return listEntries(ctx, h.db, sql, args...)
}

func listEntries(ctx context.Context, db *gorm.DB, sql string, args ...any) ([]EntryView, error) {
	rows, err := db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]EntryView, 0)
	for rows.Next() {
		v, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
