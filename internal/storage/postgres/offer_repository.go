package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

const offerColumns = `id, listing_id, buyer_id, buyer_name, buyer_email, seller_id,
product_name, product_description, price, category, condition,
status, match_kind, match_reason, created_at, updated_at`

type OfferRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

var _ app.OfferRepository = (*OfferRepository)(nil)

func (r *OfferRepository) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// CreateOffers inserts the offers in one transaction.
func (r *OfferRepository) CreateOffers(ctx context.Context, offers []domain.Offer) error {
	const stmt = `
INSERT INTO offers (` + offerColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	return r.inTx(ctx, func(txCtx context.Context) error {
		batch := &pgx.Batch{}
		for _, o := range offers {
			batch.Queue(stmt,
				o.ID,
				o.ListingID,
				o.BuyerID,
				o.BuyerName,
				o.BuyerEmail,
				o.SellerID,
				o.Listing.Name,
				o.Listing.Description,
				o.Listing.Price,
				o.Listing.Category,
				o.Listing.Condition,
				string(o.Status),
				string(o.MatchKind),
				o.MatchReason,
				o.CreatedAt,
				o.UpdatedAt,
			)
		}

		if err := conn(txCtx, r.pool).SendBatch(txCtx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrOfferExists
			}
			return fmt.Errorf("create offers: %w", err)
		}
		return nil
	})
}

func (r *OfferRepository) GetOffer(ctx context.Context, id string) (domain.Offer, error) {
	const query = `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	o, err := scanOffer(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Offer{}, domain.ErrOfferNotFound
		}
		return domain.Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// UpdateOffer locks the row, applies mutate and writes the new status back in
// the same transaction.
func (r *OfferRepository) UpdateOffer(ctx context.Context, id string, mutate app.OfferMutation) (domain.Offer, error) {
	const query = `SELECT ` + offerColumns + ` FROM offers WHERE id = $1 FOR UPDATE`
	const stmt = `UPDATE offers SET status = $2, updated_at = $3 WHERE id = $1`

	var result domain.Offer
	err := r.inTx(ctx, func(txCtx context.Context) error {
		q := conn(txCtx, r.pool)

		o, err := scanOffer(q.QueryRow(txCtx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrOfferNotFound
			}
			return fmt.Errorf("lock offer: %w", err)
		}

		if err := mutate(txCtx, &o); err != nil {
			return err
		}

		tag, err := q.Exec(txCtx, stmt, id, string(o.Status), o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update offer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOfferNotFound
		}
		o.ID = id
		result = o
		return nil
	})
	if err != nil {
		return domain.Offer{}, err
	}
	return result, nil
}

func (r *OfferRepository) ListOffers(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.BuyerID != "" {
		args = append(args, filter.BuyerID)
		where = append(where, "buyer_id = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + offerColumns + ` FROM offers`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []domain.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate offers: %w", rows.Err())
	}
	return offers, nil
}

func (r *OfferRepository) CountByStatus(ctx context.Context, buyerID string) (map[domain.OfferStatus]int, error) {
	const query = `
SELECT status, COUNT(*)
FROM offers
WHERE $1 = '' OR buyer_id = $1
GROUP BY status`

	rows, err := conn(ctx, r.pool).Query(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("count offers: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.OfferStatus]int, len(domain.OfferStatuses))
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[domain.OfferStatus(status)] = n
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate counts: %w", rows.Err())
	}
	return counts, nil
}

func scanOffer(row pgx.Row) (domain.Offer, error) {
	var (
		o      domain.Offer
		status string
		kind   string
	)
	err := row.Scan(
		&o.ID,
		&o.ListingID,
		&o.BuyerID,
		&o.BuyerName,
		&o.BuyerEmail,
		&o.SellerID,
		&o.Listing.Name,
		&o.Listing.Description,
		&o.Listing.Price,
		&o.Listing.Category,
		&o.Listing.Condition,
		&status,
		&kind,
		&o.MatchReason,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return domain.Offer{}, err
	}
	o.Status = domain.OfferStatus(status)
	o.MatchKind = domain.MatchKind(kind)
	o.Listing.ID = o.ListingID
	o.Listing.SellerID = o.SellerID
	return o, nil
}
