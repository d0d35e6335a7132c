package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// BuyerRepository serves the buyer directory from the buyers table in
// insertion order.
type BuyerRepository struct {
	pool *pgxpool.Pool
}

func NewBuyerRepository(pool *pgxpool.Pool) *BuyerRepository {
	return &BuyerRepository{pool: pool}
}

func (r *BuyerRepository) ListBuyers(ctx context.Context) ([]domain.BuyerProfile, error) {
	const query = `
SELECT id, name, email, phone, interests, favorites, previous_requests
FROM buyers
ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list buyers: %w", err)
	}
	defer rows.Close()

	buyers := []domain.BuyerProfile{}
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		buyers = append(buyers, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate buyers: %w", rows.Err())
	}
	return buyers, nil
}

func (r *BuyerRepository) GetBuyer(ctx context.Context, id string) (domain.BuyerProfile, error) {
	const query = `
SELECT id, name, email, phone, interests, favorites, previous_requests
FROM buyers
WHERE id = $1`

	b, err := scanBuyer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BuyerProfile{}, domain.ErrBuyerNotFound
		}
		return domain.BuyerProfile{}, fmt.Errorf("get buyer: %w", err)
	}
	return b, nil
}

// UpsertBuyers inserts new buyers and refreshes existing ones by id. Existing
// buyers keep their directory position.
func (r *BuyerRepository) UpsertBuyers(ctx context.Context, buyers []domain.BuyerProfile) error {
	const stmt = `
INSERT INTO buyers (id, name, email, phone, interests, favorites, previous_requests)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	interests = EXCLUDED.interests,
	favorites = EXCLUDED.favorites,
	previous_requests = EXCLUDED.previous_requests,
	updated_at = NOW()`

	return withTx(ctx, r.pool, func(txCtx context.Context) error {
		q := conn(txCtx, r.pool)
		for _, b := range buyers {
			if b.ID == "" {
				return domain.ErrInvalidID
			}
			_, err := q.Exec(txCtx, stmt,
				b.ID,
				b.Name,
				b.Email,
				b.Phone,
				nonNil(b.Interests),
				nonNil(b.Favorites),
				nonNil(b.PreviousRequests),
			)
			if err != nil {
				return fmt.Errorf("upsert buyer %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

func scanBuyer(row pgx.Row) (domain.BuyerProfile, error) {
	var b domain.BuyerProfile
	err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.Interests, &b.Favorites, &b.PreviousRequests)
	return b, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
