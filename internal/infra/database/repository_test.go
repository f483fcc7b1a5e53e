package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rog-store/internal/entity"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

func TestCustomerRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewCustomerRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WillReturnError(&pq.Error{Code: "23505"})

	c, err := entity.NewCustomer("Dra. Ana", "ana@clinica.com", "", "", "hash")
	require.NoError(t, err)

	err = repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
}

func TestCustomerRepository_FindByEmailNotFound(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewCustomerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE email = LOWER($1)")).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestProductRepository_DecrementStockInsufficient(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - $2")).
		WithArgs("prod-1", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DecrementStock(context.Background(), "prod-1", 3)
	assert.ErrorIs(t, err, entity.ErrOutOfStock)
}

func TestProductRepository_ListBuildsFilters(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewProductRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "slug", "description", "category", "price", "stock",
		"weight_grams", "image_url", "active", "created_at", "updated_at"}).
		AddRow("p1", "Membrana Colágeno", "membrana-colageno", "", "membranas", "450.00", 10, 30, "", true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE active = TRUE AND category = $1 AND (name ILIKE $2 OR description ILIKE $2) ORDER BY name LIMIT $3 OFFSET $4")).
		WithArgs("membranas", "%colágeno%", 50, 0).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), entity.ProductFilter{Category: "membranas", Search: "colágeno", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.RequireFromString("450").Equal(list[0].Price))
}

func TestVoucherRepository_IncrementUsesExhausted(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewVoucherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("(max_uses = 0 OR current_uses < max_uses)")).
		WithArgs("v-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementUses(context.Background(), "v-1")
	assert.ErrorIs(t, err, entity.ErrVoucherExhausted)
}

func TestVoucherRepository_FindByCodeNormalizes(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewVoucherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "description", "discount_type", "discount_value", "min_purchase",
		"max_uses", "current_uses", "expires_at", "active", "created_at", "updated_at"}).
		AddRow("v-1", "ROG10", "", "percentage", "10", "0", 0, 0, nil, true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vouchers WHERE code = $1")).
		WithArgs("ROG10").
		WillReturnRows(rows)

	v, err := repo.FindByCode(context.Background(), "  rog10 ")
	require.NoError(t, err)
	assert.Equal(t, entity.DiscountPercentage, v.DiscountType)
	assert.Nil(t, v.ExpiresAt)
}

func TestVoucherRepository_FindByCodeMissing(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewVoucherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vouchers WHERE code = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, entity.ErrVoucherNotFound)
}

func TestOrderRepository_CreateInsertsItemsInTransaction(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewOrderRepository(db)

	order := &entity.Order{
		ID:         "o-1",
		CustomerID: "c-1",
		Status:     entity.OrderPending,
		Items: []entity.OrderItem{
			{ProductID: "p-1", Name: "Membrana", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
			{ProductID: "p-2", Name: "Enxerto", UnitPrice: decimal.NewFromInt(50), Quantity: 1},
		},
		PaymentMethod: "PIX",
		Installments:  1,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(sqlmock.AnyArg(), "o-1", "p-1", "Membrana", sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(sqlmock.AnyArg(), "o-1", "p-2", "Enxerto", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), order))
	for _, it := range order.Items {
		assert.NotEmpty(t, it.ID)
		assert.Equal(t, "o-1", it.OrderID)
	}
}

func TestOrderRepository_CreateRollsBackOnItemFailure(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewOrderRepository(db)

	order := &entity.Order{ID: "o-1", Items: []entity.OrderItem{{ProductID: "p-1", Quantity: 1}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).WillReturnError(driver.ErrBadConn)
	mock.ExpectRollback()

	assert.Error(t, repo.Create(context.Background(), order))
}

func TestOrderRepository_ExpirePendingLoadsItems(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewOrderRepository(db)

	now := time.Now()
	cols := []string{"id", "customer_id", "status", "subtotal", "discount", "shipping_fee", "total", "voucher_code",
		"condition_id", "shipping_service", "shipping_days", "street", "number", "complement", "district", "city",
		"state", "zip_code", "payment_method", "installments", "payment_id", "payment_url", "quotation_id",
		"created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE orders SET status = 'cancelled'")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("o-1", "c-1", "cancelled", "100", "10", "20", "110", "ROG10",
			"", "PAC", 3, "", "", "", "", "", "", "01310100", "PIX", 1, "pay_1", "", "", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_items WHERE order_id = $1")).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "unit_price", "quantity"}).
			AddRow("i-1", "o-1", "p-1", "Membrana", "100", 1))

	orders, err := repo.ExpirePending(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderCancelled, orders[0].Status)
	assert.Equal(t, "ROG10", orders[0].VoucherCode)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 1, orders[0].Items[0].Quantity)
}

func TestLeadRepository_UpsertReturnsStoredRow(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewLeadRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (email)")).
		WithArgs("ana@clinica.com", "Ana", nil, "site", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "status"}).
			AddRow("l-1", now, now, entity.LeadPending))

	lead := &entity.Lead{Email: "ana@clinica.com", Name: "Ana", Source: "site"}
	require.NoError(t, repo.Upsert(context.Background(), lead))
	assert.Equal(t, "l-1", lead.ID)
	assert.Equal(t, entity.LeadPending, lead.Status)
}

func TestCRMRepository_MoveContactShiftsTargetColumn(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewCRMRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET position = position + 1")).
		WithArgs("stage-2", 0, "ct-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("SET stage_id = $2, position = $3")).
		WithArgs("ct-1", "stage-2", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MoveContact(context.Background(), "ct-1", "stage-2", 0))
}

func TestAutomationRepository_ListActiveByTriggerDecodesSteps(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewAutomationRepository(db)

	now := time.Now()
	steps := []byte(`[{"type":"send_whatsapp","template":"Olá {{.Name}}"}]`)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE active AND trigger = $1")).
		WithArgs(entity.TriggerOrderPaid).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "trigger", "active", "steps", "created_at", "updated_at"}).
			AddRow("f-1", "Pagamento confirmado", "", entity.TriggerOrderPaid, true, steps, now, now))

	flows, err := repo.ListActiveByTrigger(context.Background(), entity.TriggerOrderPaid)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	require.Len(t, flows[0].Steps, 1)
	assert.Equal(t, entity.StepSendWhatsApp, flows[0].Steps[0].Type)
}

func TestOrderRepository_UpdateStatusIsConditional(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewOrderRepository(db)

	update := regexp.QuoteMeta("UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2")
	mock.ExpectExec(update).WithArgs("o-1", "pending", "processing").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs("o-1", "pending", "cancelled").WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := repo.UpdateStatus(context.Background(), "o-1", entity.OrderPending, entity.OrderProcessing)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.UpdateStatus(context.Background(), "o-1", entity.OrderPending, entity.OrderCancelled)
	require.NoError(t, err)
	assert.False(t, moved, "o pedido já saiu de pending")
}

func TestQuotationRepository_ChangeStatusOnlyFromAllowed(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()
	repo := NewQuotationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE quotations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = ANY($2)")).
		WithArgs("q-1", pq.Array([]string{"sent", "accepted"}), "converted").
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := repo.ChangeStatus(context.Background(), "q-1",
		[]entity.QuotationStatus{entity.QuotationSent, entity.QuotationAccepted}, entity.QuotationConverted)
	require.NoError(t, err)
	assert.False(t, moved)
}
