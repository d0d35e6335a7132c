package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// ActionLog stores applied buyer actions. RecordAction joins the transaction
// carried by ctx, so it commits together with the status update.
type ActionLog struct {
	pool *pgxpool.Pool
}

func NewActionLog(pool *pgxpool.Pool) *ActionLog {
	return &ActionLog{pool: pool}
}

func (l *ActionLog) RecordAction(ctx context.Context, rec domain.OfferActionRecord) error {
	const stmt = `
INSERT INTO offer_actions (offer_id, action, buyer_id, previous_status, new_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := conn(ctx, l.pool).Exec(ctx, stmt,
		rec.OfferID,
		string(rec.Action),
		rec.BuyerID,
		string(rec.PreviousStatus),
		string(rec.NewStatus),
		rec.Timestamp,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrOfferNotFound
		}
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

func (l *ActionLog) ListActions(ctx context.Context, offerID string) ([]domain.OfferActionRecord, error) {
	const query = `
SELECT offer_id, action, buyer_id, previous_status, new_status, created_at
FROM offer_actions
WHERE offer_id = $1
ORDER BY id ASC`

	rows, err := conn(ctx, l.pool).Query(ctx, query, offerID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	records := []domain.OfferActionRecord{}
	for rows.Next() {
		var (
			rec                      domain.OfferActionRecord
			action, previous, status string
		)
		if err := rows.Scan(&rec.OfferID, &action, &rec.BuyerID, &previous, &status, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		rec.Action = domain.OfferAction(action)
		rec.PreviousStatus = domain.OfferStatus(previous)
		rec.NewStatus = domain.OfferStatus(status)
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate actions: %w", rows.Err())
	}
	return records, nil
}
