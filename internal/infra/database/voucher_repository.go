package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type VoucherRepository struct {
	DB *sql.DB
}

func NewVoucherRepository(db *sql.DB) *VoucherRepository {
	return &VoucherRepository{DB: db}
}

const voucherColumns = `id, code, description, discount_type, discount_value, min_purchase, max_uses, current_uses,
	expires_at, active, created_at, updated_at`

func scanVoucher(row interface{ Scan(...any) error }) (*entity.Voucher, error) {
	var (
		v         entity.Voucher
		expiresAt sql.NullTime
	)
	err := row.Scan(&v.ID, &v.Code, &v.Description, &v.DiscountType, &v.DiscountValue, &v.MinPurchase,
		&v.MaxUses, &v.CurrentUses, &expiresAt, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		v.ExpiresAt = &expiresAt.Time
	}
	return &v, nil
}

func (r *VoucherRepository) Create(ctx context.Context, v *entity.Voucher) error {
	query := `
		INSERT INTO vouchers (id, code, description, discount_type, discount_value, min_purchase, max_uses,
			current_uses, expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query, v.ID, v.Code, v.Description, v.DiscountType, v.DiscountValue,
		v.MinPurchase, v.MaxUses, v.CurrentUses, v.ExpiresAt, v.Active, v.CreatedAt, v.UpdatedAt)
	if isUniqueViolation(err) {
		return entity.ErrAlreadyExists
	}
	return err
}

func (r *VoucherRepository) Update(ctx context.Context, v *entity.Voucher) error {
	query := `
		UPDATE vouchers SET description = $2, discount_type = $3, discount_value = $4, min_purchase = $5,
			max_uses = $6, expires_at = $7, active = $8, updated_at = NOW()
		WHERE id = $1
	`
	return expectOneRow(r.DB.ExecContext(ctx, query, v.ID, v.Description, v.DiscountType, v.DiscountValue,
		v.MinPurchase, v.MaxUses, v.ExpiresAt, v.Active))
}

func (r *VoucherRepository) Delete(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx, `DELETE FROM vouchers WHERE id = $1`, id))
}

// FindByCode compara sem diferenciar maiúsculas.
func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	v, err := scanVoucher(r.DB.QueryRowContext(ctx,
		`SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, entity.NormalizeVoucherCode(code)))
	if err != nil {
		if notFound(err) == entity.ErrNotFound {
			return nil, entity.ErrVoucherNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *VoucherRepository) List(ctx context.Context) ([]*entity.Voucher, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+voucherColumns+` FROM vouchers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// IncrementUses é atômico: dois checkouts concorrentes não estouram max_uses.
func (r *VoucherRepository) IncrementUses(ctx context.Context, id string) error {
	query := `
		UPDATE vouchers SET current_uses = current_uses + 1, updated_at = NOW()
		WHERE id = $1 AND active AND (max_uses = 0 OR current_uses < max_uses)
	`
	if err := expectOneRow(r.DB.ExecContext(ctx, query, id)); err != nil {
		if err == entity.ErrNotFound {
			return entity.ErrVoucherExhausted
		}
		return err
	}
	return nil
}

func (r *VoucherRepository) DecrementUses(ctx context.Context, id string) error {
	return expectOneRow(r.DB.ExecContext(ctx,
		`UPDATE vouchers SET current_uses = current_uses - 1, updated_at = NOW() WHERE id = $1 AND current_uses > 0`, id))
}
