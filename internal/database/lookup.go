package database

import (
	"context"
	"time"

	"ton-sc-viewer/internal/contract"
)

// Journal records contract lookups served by the API.
type Journal interface {
	RecordLookup(ctx context.Context, l *Lookup) error
	ListLookups(ctx context.Context, limit int) ([]Lookup, error)
}

type NopJournal struct{}

func (NopJournal) RecordLookup(context.Context, *Lookup) error		{ return nil }
func (NopJournal) ListLookups(context.Context, int) ([]Lookup, error)	{ return []Lookup{}, nil }

var (
	_	Journal	= (*DB)(nil)
	_	Journal	= NopJournal{}
)

// NewLookup summarizes the outcome of one fetch.
func NewLookup(address string, full *contract.StorageContractFull, err error) *Lookup {
	l := &Lookup{
		Address:	address,
		Balance:	"0",
		Status:		"ok",
	}
	if err != nil {
		l.Status = string(contract.KindOf(err))
		if l.Status == "" {
			l.Status = "error"
		}
		l.ErrorMsg = err.Error()
		return l
	}
	if full != nil {
		l.BagID = full.Info.BagID
		l.Providers = len(full.Providers.Providers)
		l.Balance = full.Providers.Balance
	}
	return l
}

func (db *DB) RecordLookup(ctx context.Context, l *Lookup) error {
	return db.pool.QueryRow(ctx, `
		INSERT INTO lookups (address, bag_id, providers, balance, status, error_msg)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, l.Address, l.BagID, l.Providers, l.Balance, l.Status, l.ErrorMsg).Scan(&l.ID, &l.CreatedAt)
}

func (db *DB) ListLookups(ctx context.Context, limit int) ([]Lookup, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx, `
		SELECT id, address, bag_id, providers, balance, status, error_msg, created_at
		FROM lookups
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Lookup, 0)
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Address, &l.BagID, &l.Providers, &l.Balance, &l.Status, &l.ErrorMsg, &l.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (db *DB) DeleteLookupsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM lookups WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
