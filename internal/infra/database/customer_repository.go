package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/rog-store/internal/entity"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, email, password_hash, COALESCE(cpf, ''), COALESCE(phone, ''), COALESCE(cro, ''),
	COALESCE(street, ''), COALESCE(number, ''), COALESCE(complement, ''), COALESCE(district, ''),
	COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code, ''), is_admin, COALESCE(gateway_id, ''),
	created_at, updated_at`

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, password_hash, cpf, phone, cro,
			street, number, complement, district, city, state, zip_code, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.PasswordHash, nullString(c.CPF), nullString(c.Phone), nullString(c.CRO),
		c.Address.Street, c.Address.Number, c.Address.Complement, c.Address.District,
		c.Address.City, c.Address.State, c.Address.ZipCode, c.IsAdmin, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = LOWER($1)`, email)
}

func (r *CustomerRepository) findOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.CPF, &c.Phone, &c.CRO,
		&c.Address.Street, &c.Address.Number, &c.Address.Complement, &c.Address.District,
		&c.Address.City, &c.Address.State, &c.Address.ZipCode, &c.IsAdmin, &c.GatewayID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, phone = $3, cro = $4, street = $5, number = $6, complement = $7,
			district = $8, city = $9, state = $10, zip_code = $11, updated_at = NOW()
		WHERE id = $1
	`
	return expectOneRow(r.DB.ExecContext(ctx, query,
		c.ID, c.Name, nullString(c.Phone), nullString(c.CRO), c.Address.Street, c.Address.Number,
		c.Address.Complement, c.Address.District, c.Address.City, c.Address.State, c.Address.ZipCode,
	))
}

func (r *CustomerRepository) UpdateGatewayID(ctx context.Context, customerID, gatewayID string) error {
	query := `UPDATE customers SET gateway_id = $2, updated_at = NOW() WHERE id = $1`
	return expectOneRow(r.DB.ExecContext(ctx, query, customerID, gatewayID))
}

func (r *CustomerRepository) CheckDuplicity(ctx context.Context, email, cpf string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE email = LOWER($1) OR (cpf IS NOT NULL AND cpf = $2))`
	var exists bool
	err := r.DB.QueryRowContext(ctx, query, email, cpf).Scan(&exists)
	return exists, err
}
