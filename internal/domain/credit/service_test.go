package credit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain"
	"almacen/internal/domain/catalogs/customer"
	"almacen/pkg/logger"
)

// fakeTxManager runs the function directly; tests exercise business rules,
// not transaction plumbing.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInRetryableTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCustomerRepo struct {
	customers map[id.ID]*customer.Customer
}

func newFakeCustomerRepo(items ...*customer.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[id.ID]*customer.Customer)}
	for _, c := range items {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	c, ok := r.customers[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID)
	}
	return c, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) SetDeletionMark(ctx context.Context, customerID id.ID, marked bool) error {
	c, ok := r.customers[customerID]
	if !ok {
		return apperror.NewNotFound("customer", customerID)
	}
	c.DeletionMark = marked
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	var items []*customer.Customer
	for _, c := range r.customers {
		items = append(items, c)
	}
	return domain.ListResult[*customer.Customer]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeCustomerRepo) Exists(ctx context.Context, customerID id.ID) (bool, error) {
	_, ok := r.customers[customerID]
	return ok, nil
}

func (r *fakeCustomerRepo) GetByRUT(ctx context.Context, rut string) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.RUT == rut && !c.DeletionMark {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("customer", rut)
}

func (r *fakeCustomerRepo) GetForUpdate(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.GetByID(ctx, customerID)
}

func (r *fakeCustomerRepo) UpdateBalance(ctx context.Context, customerID id.ID, balance types.Money) error {
	c, ok := r.customers[customerID]
	if !ok {
		return apperror.NewNotFound("customer", customerID)
	}
	c.Balance = balance
	return nil
}

func (r *fakeCustomerRepo) ListDebtors(ctx context.Context) ([]*customer.Customer, error) {
	var items []*customer.Customer
	for _, c := range r.customers {
		if c.Balance.IsPositive() {
			items = append(items, c)
		}
	}
	return items, nil
}

type fakeMovementRepo struct {
	movements []*Movement
}

func (r *fakeMovementRepo) Create(ctx context.Context, m *Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) ListByCustomer(ctx context.Context, customerID id.ID, limit int) ([]*Movement, error) {
	var out []*Movement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].CustomerID == customerID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	for _, m := range r.movements {
		if m.ID == movementID {
			return m, nil
		}
	}
	return nil, apperror.NewNotFound("credit_movement", movementID)
}

func creditCustomer(limit string) *customer.Customer {
	c := customer.New("Maria Perez", "12345678-5")
	c.CreditEnabled = true
	c.CreditLimit = types.MustMoney(limit)
	return c
}

func newTestService(customers *fakeCustomerRepo, movements *fakeMovementRepo) *Service {
	return NewService(customers, movements, fakeTxManager{}, nil, logger.Default())
}

func TestRegisterMovement_Purchase(t *testing.T) {
	cust := creditCustomer("50000")
	customers := newFakeCustomerRepo(cust)
	movements := &fakeMovementRepo{}
	svc := newTestService(customers, movements)

	saleID := id.New()
	m, got, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPurchase,
		Amount:     types.MustMoney("12500"),
		SaleID:     &saleID,
	})
	require.NoError(t, err)

	assert.Equal(t, KindPurchase, m.Kind)
	assert.True(t, m.BalanceAfter.Equal(types.MustMoney("12500")))
	require.NotNil(t, m.SaleID)
	assert.Equal(t, saleID, *m.SaleID)

	// The returned customer and the stored one carry the new balance.
	assert.True(t, got.Balance.Equal(types.MustMoney("12500")))
	assert.True(t, customers.customers[cust.ID].Balance.Equal(types.MustMoney("12500")))
	assert.Len(t, movements.movements, 1)
}

func TestRegisterMovement_PurchaseOverLimit(t *testing.T) {
	cust := creditCustomer("10000")
	cust.Balance = types.MustMoney("8000")
	customers := newFakeCustomerRepo(cust)
	movements := &fakeMovementRepo{}
	svc := newTestService(customers, movements)

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPurchase,
		Amount:     types.MustMoney("2000.01"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeCreditLimitExceeded))

	// Nothing was written.
	assert.Empty(t, movements.movements)
	assert.True(t, customers.customers[cust.ID].Balance.Equal(types.MustMoney("8000")))
}

func TestRegisterMovement_PurchaseAtExactLimit(t *testing.T) {
	cust := creditCustomer("10000")
	cust.Balance = types.MustMoney("8000")
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	m, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPurchase,
		Amount:     types.MustMoney("2000"),
	})
	require.NoError(t, err)
	assert.True(t, m.BalanceAfter.Equal(types.MustMoney("10000")))
}

func TestRegisterMovement_CreditDisabled(t *testing.T) {
	cust := customer.New("Juan Soto", "9876543-3")
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPurchase,
		Amount:     types.MustMoney("100"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeCreditNotAvailable))
}

func TestRegisterMovement_InactiveCustomer(t *testing.T) {
	cust := creditCustomer("10000")
	cust.Active = false
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPurchase,
		Amount:     types.MustMoney("100"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeCreditNotAvailable))
}

func TestRegisterMovement_Payment(t *testing.T) {
	cust := creditCustomer("50000")
	cust.Balance = types.MustMoney("30000")
	customers := newFakeCustomerRepo(cust)
	movements := &fakeMovementRepo{}
	svc := newTestService(customers, movements)

	m, got, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPayment,
		Amount:     types.MustMoney("10000"),
		Notes:      "abono en efectivo",
	})
	require.NoError(t, err)
	assert.True(t, m.BalanceAfter.Equal(types.MustMoney("20000")))
	assert.True(t, got.Balance.Equal(types.MustMoney("20000")))
}

func TestRegisterMovement_PaymentWorksWithCreditDisabled(t *testing.T) {
	// Payments must be accepted even after credit was revoked: the customer
	// still owes the money.
	cust := creditCustomer("50000")
	cust.Balance = types.MustMoney("5000")
	cust.CreditEnabled = false
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	m, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPayment,
		Amount:     types.MustMoney("5000"),
	})
	require.NoError(t, err)
	assert.True(t, m.BalanceAfter.IsZero())
}

func TestRegisterMovement_Overpayment(t *testing.T) {
	cust := creditCustomer("50000")
	cust.Balance = types.MustMoney("1000")
	customers := newFakeCustomerRepo(cust)
	movements := &fakeMovementRepo{}
	svc := newTestService(customers, movements)

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPayment,
		Amount:     types.MustMoney("1500"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverpayment))
	assert.Empty(t, movements.movements)
}

func TestRegisterMovement_Adjustment(t *testing.T) {
	cust := creditCustomer("50000")
	cust.Balance = types.MustMoney("2000")
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	// Positive adjustment forgives debt.
	m, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindAdjustment,
		Amount:     types.MustMoney("500"),
	})
	require.NoError(t, err)
	assert.True(t, m.BalanceAfter.Equal(types.MustMoney("1500")))

	// Negative adjustment adds debt.
	m, _, err = svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindAdjustment,
		Amount:     types.MustMoney("-300"),
	})
	require.NoError(t, err)
	assert.True(t, m.BalanceAfter.Equal(types.MustMoney("1800")))
}

func TestRegisterMovement_UnsupportedKind(t *testing.T) {
	cust := creditCustomer("50000")
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       Kind("REFUND"),
		Amount:     types.MustMoney("100"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedMovementKind))
}

func TestRegisterMovement_MissingCustomer(t *testing.T) {
	svc := newTestService(newFakeCustomerRepo(), &fakeMovementRepo{})

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: id.New(),
		Kind:       KindPayment,
		Amount:     types.MustMoney("100"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegisterMovement_DeletedCustomer(t *testing.T) {
	cust := creditCustomer("50000")
	cust.DeletionMark = true
	customers := newFakeCustomerRepo(cust)
	svc := newTestService(customers, &fakeMovementRepo{})

	_, _, err := svc.RegisterMovement(context.Background(), RegisterInput{
		CustomerID: cust.ID,
		Kind:       KindPayment,
		Amount:     types.MustMoney("100"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRegisterMovement_BalanceChain(t *testing.T) {
	cust := creditCustomer("100000")
	customers := newFakeCustomerRepo(cust)
	movements := &fakeMovementRepo{}
	svc := newTestService(customers, movements)
	ctx := context.Background()

	steps := []struct {
		kind   Kind
		amount string
		after  string
	}{
		{KindPurchase, "10000", "10000"},
		{KindPurchase, "2500", "12500"},
		{KindPayment, "5000", "7500"},
		{KindAdjustment, "-500", "8000"},
		{KindPayment, "8000", "0"},
	}

	for _, step := range steps {
		m, _, err := svc.RegisterMovement(ctx, RegisterInput{
			CustomerID: cust.ID,
			Kind:       step.kind,
			Amount:     types.MustMoney(step.amount),
		})
		require.NoError(t, err)
		assert.True(t, m.BalanceAfter.Equal(types.MustMoney(step.after)),
			"after %s %s: want %s, got %s", step.kind, step.amount, step.after, m.BalanceAfter)
	}

	assert.Len(t, movements.movements, len(steps))
	assert.True(t, customers.customers[cust.ID].Balance.IsZero())
}

func TestListMovements_LimitClamping(t *testing.T) {
	cust := creditCustomer("1000000")
	customers := newFakeCustomerRepo(cust)
	movements := &fakeMovementRepo{}
	svc := newTestService(customers, movements)
	ctx := context.Background()

	for range 150 {
		_, _, err := svc.RegisterMovement(ctx, RegisterInput{
			CustomerID: cust.ID,
			Kind:       KindPurchase,
			Amount:     types.MustMoney("10"),
		})
		require.NoError(t, err)
	}

	// Zero gets the default.
	got, err := svc.ListMovements(ctx, cust.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultMovementLimit)

	// Oversized requests are clamped.
	got, err = svc.ListMovements(ctx, cust.ID, 5000)
	require.NoError(t, err)
	assert.Len(t, got, MaxMovementLimit)

	// Newest first.
	require.Greater(t, len(got), 1)
	assert.True(t, got[0].BalanceAfter.GreaterThan(got[1].BalanceAfter))
}

func TestListMovements_UnknownCustomer(t *testing.T) {
	svc := newTestService(newFakeCustomerRepo(), &fakeMovementRepo{})

	_, err := svc.ListMovements(context.Background(), id.New(), 10)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDebtors(t *testing.T) {
	owing := creditCustomer("50000")
	owing.Balance = types.MustMoney("12000")
	clean := creditCustomer("50000")

	svc := newTestService(newFakeCustomerRepo(owing, clean), &fakeMovementRepo{})

	items, err := svc.Debtors(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, owing.ID, items[0].ID)
}
