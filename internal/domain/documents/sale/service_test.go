package sale

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
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/credit"
	"almacen/internal/domain/stock"
	"almacen/pkg/logger"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunInRetryableTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProductRepo struct {
	products map[id.ID]*product.Product
}

func newFakeProductRepo(items ...*product.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[id.ID]*product.Product)}
	for _, p := range items {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return p, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *product.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) SetDeletionMark(ctx context.Context, productID id.ID, marked bool) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.DeletionMark = marked
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{}, nil
}

func (r *fakeProductRepo) Exists(ctx context.Context, productID id.ID) (bool, error) {
	_, ok := r.products[productID]
	return ok, nil
}

func (r *fakeProductRepo) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	return nil, apperror.NewNotFound("product", barcode)
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *fakeProductRepo) UpdateStock(ctx context.Context, productID id.ID, newStock int64) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.Stock = newStock
	return nil
}

func (r *fakeProductRepo) UpdatePurchasePrice(ctx context.Context, productID id.ID, price types.Money) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.PurchasePrice = price
	return nil
}

func (r *fakeProductRepo) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	return nil, nil
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
	return domain.ListResult[*customer.Customer]{}, nil
}

func (r *fakeCustomerRepo) Exists(ctx context.Context, customerID id.ID) (bool, error) {
	_, ok := r.customers[customerID]
	return ok, nil
}

func (r *fakeCustomerRepo) GetByRUT(ctx context.Context, rut string) (*customer.Customer, error) {
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
	return nil, nil
}

type fakeStockMovementRepo struct {
	movements []*stock.Movement
}

func (r *fakeStockMovementRepo) Create(ctx context.Context, m *stock.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeStockMovementRepo) ListByProduct(ctx context.Context, productID id.ID, limit int) ([]*stock.Movement, error) {
	return nil, nil
}

type fakeCreditMovementRepo struct {
	movements []*credit.Movement
}

func (r *fakeCreditMovementRepo) Create(ctx context.Context, m *credit.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeCreditMovementRepo) ListByCustomer(ctx context.Context, customerID id.ID, limit int) ([]*credit.Movement, error) {
	return nil, nil
}

func (r *fakeCreditMovementRepo) GetByID(ctx context.Context, movementID id.ID) (*credit.Movement, error) {
	return nil, apperror.NewNotFound("credit_movement", movementID)
}

type fakeSaleRepo struct {
	sales map[id.ID]*Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[id.ID]*Sale)}
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return s, nil
}

func (r *fakeSaleRepo) GetLine(ctx context.Context, saleID, lineID id.ID) (*Line, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	for _, line := range s.Lines {
		if line.ID == lineID {
			return line, nil
		}
	}
	return nil, apperror.NewNotFound("sale_line", lineID)
}

func (r *fakeSaleRepo) UpdateLine(ctx context.Context, line *Line) error {
	s, ok := r.sales[line.SaleID]
	if !ok {
		return apperror.NewNotFound("sale", line.SaleID)
	}
	for i, l := range s.Lines {
		if l.ID == line.ID {
			s.Lines[i] = line
			return nil
		}
	}
	return apperror.NewNotFound("sale_line", line.ID)
}

func (r *fakeSaleRepo) DeleteLine(ctx context.Context, saleID, lineID id.ID) error {
	s, ok := r.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID)
	}
	for i, l := range s.Lines {
		if l.ID == lineID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("sale_line", lineID)
}

func (r *fakeSaleRepo) UpdateTotal(ctx context.Context, saleID id.ID, total types.Money) error {
	s, ok := r.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID)
	}
	s.Total = total
	return nil
}

func (r *fakeSaleRepo) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	var out []*Sale
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

// fixture bundles the service with its fakes so tests can inspect state.
type fixture struct {
	svc       *Service
	sales     *fakeSaleRepo
	products  *fakeProductRepo
	customers *fakeCustomerRepo
	stockLog  *fakeStockMovementRepo
	creditLog *fakeCreditMovementRepo
}

func newFixture(products []*product.Product, customers []*customer.Customer) *fixture {
	log := logger.Default()
	txm := fakeTxManager{}

	productRepo := newFakeProductRepo(products...)
	customerRepo := newFakeCustomerRepo(customers...)
	stockLog := &fakeStockMovementRepo{}
	creditLog := &fakeCreditMovementRepo{}
	saleRepo := newFakeSaleRepo()

	stockSvc := stock.NewService(productRepo, stockLog, txm, nil, log)
	creditSvc := credit.NewService(customerRepo, creditLog, txm, nil, log)

	return &fixture{
		svc:       NewService(saleRepo, productRepo, stockSvc, creditSvc, txm, log),
		sales:     saleRepo,
		products:  productRepo,
		customers: customerRepo,
		stockLog:  stockLog,
		creditLog: creditLog,
	}
}

func testProduct(name, price string, onHand int64) *product.Product {
	p := product.New(name, types.MustMoney(price))
	p.Stock = onHand
	return p
}

func creditCustomer(limit string) *customer.Customer {
	c := customer.New("Maria Perez", "12345678-5")
	c.CreditEnabled = true
	c.CreditLimit = types.MustMoney(limit)
	return c
}

func TestCreate_CashSale(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	milk := testProduct("Leche", "1190", 6)
	f := newFixture([]*product.Product{bread, milk}, nil)

	receipt, err := f.svc.Create(context.Background(), Draft{
		CustomerName: "vecina del 204",
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 2},
			{ProductID: milk.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	doc := receipt.Sale
	assert.Equal(t, PaymentCash, doc.PaymentMethod)
	assert.Nil(t, receipt.Movement)
	assert.True(t, doc.Total.Equal(types.MustMoney("6570")), "got total %s", doc.Total)

	// Names and prices are snapshotted on the lines.
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "Pan", doc.Lines[0].ProductName)
	assert.True(t, doc.Lines[0].UnitPrice.Equal(types.MustMoney("1500")))
	assert.True(t, doc.Lines[0].Subtotal.Equal(types.MustMoney("3000")))

	// Stock moved.
	assert.Equal(t, int64(8), f.products.products[bread.ID].Stock)
	assert.Equal(t, int64(3), f.products.products[milk.ID].Stock)
	assert.Len(t, f.stockLog.movements, 2)
	assert.Empty(t, f.creditLog.movements)
}

func TestCreate_PriceOverride(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	f := newFixture([]*product.Product{bread}, nil)

	offer := types.MustMoney("1200")
	receipt, err := f.svc.Create(context.Background(), Draft{
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 1, UnitPrice: &offer},
		},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Sale.Total.Equal(offer))
}

func TestCreate_CreditSale(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	cust := creditCustomer("50000")
	f := newFixture([]*product.Product{bread}, []*customer.Customer{cust})

	receipt, err := f.svc.Create(context.Background(), Draft{
		CustomerID: &cust.ID,
		OnCredit:   true,
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, PaymentCredit, receipt.Sale.PaymentMethod)
	require.NotNil(t, receipt.Movement)
	assert.Equal(t, credit.KindPurchase, receipt.Movement.Kind)
	assert.True(t, receipt.Movement.Amount.Equal(types.MustMoney("6000")))
	require.NotNil(t, receipt.Movement.SaleID)
	assert.Equal(t, receipt.Sale.ID, *receipt.Movement.SaleID)

	// The debt materialized on the customer.
	assert.True(t, f.customers.customers[cust.ID].Balance.Equal(types.MustMoney("6000")))
	assert.Len(t, f.creditLog.movements, 1)
}

func TestCreate_CreditRequiresCustomer(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	f := newFixture([]*product.Product{bread}, nil)

	_, err := f.svc.Create(context.Background(), Draft{
		OnCredit: true,
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_CustomerIDAndNameExclusive(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	cust := creditCustomer("50000")
	f := newFixture([]*product.Product{bread}, []*customer.Customer{cust})

	_, err := f.svc.Create(context.Background(), Draft{
		CustomerID:   &cust.ID,
		CustomerName: "tambien con nombre",
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreate_InsufficientStockLeavesNoTrace(t *testing.T) {
	bread := testProduct("Pan", "1500", 2)
	milk := testProduct("Leche", "1190", 10)
	f := newFixture([]*product.Product{bread, milk}, nil)

	_, err := f.svc.Create(context.Background(), Draft{
		Lines: []DraftLine{
			{ProductID: milk.ID, Quantity: 1},
			{ProductID: bread.ID, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// No sale, no stock change, no movements.
	assert.Empty(t, f.sales.sales)
	assert.Equal(t, int64(2), f.products.products[bread.ID].Stock)
	assert.Equal(t, int64(10), f.products.products[milk.ID].Stock)
	assert.Empty(t, f.stockLog.movements)
}

func TestCreate_DuplicateLinesCountedTogether(t *testing.T) {
	bread := testProduct("Pan", "1500", 5)
	f := newFixture([]*product.Product{bread}, nil)

	// 3 + 3 exceeds the 5 on hand even though each line alone fits.
	_, err := f.svc.Create(context.Background(), Draft{
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 3},
			{ProductID: bread.ID, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}

func TestCreate_CreditLimitFailureLeavesNoTrace(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	cust := creditCustomer("1000")
	f := newFixture([]*product.Product{bread}, []*customer.Customer{cust})

	_, err := f.svc.Create(context.Background(), Draft{
		CustomerID: &cust.ID,
		OnCredit:   true,
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeCreditLimitExceeded))

	// Capacity is settled before any write, so even without a rollback the
	// sale, the stock, and the ledger are all untouched.
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.stockLog.movements)
	assert.Equal(t, int64(10), f.products.products[bread.ID].Stock)
	assert.Empty(t, f.creditLog.movements)
	assert.True(t, f.customers.customers[cust.ID].Balance.IsZero())
}

func TestCreate_CreditDisabledLeavesNoTrace(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	cust := creditCustomer("50000")
	cust.CreditEnabled = false
	cust.CreditLimit = types.Zero()
	f := newFixture([]*product.Product{bread}, []*customer.Customer{cust})

	_, err := f.svc.Create(context.Background(), Draft{
		CustomerID: &cust.ID,
		OnCredit:   true,
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeCreditNotAvailable))

	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.stockLog.movements)
	assert.Equal(t, int64(10), f.products.products[bread.ID].Stock)
}

func TestCreate_InactiveProduct(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	bread.Active = false
	f := newFixture([]*product.Product{bread}, nil)

	_, err := f.svc.Create(context.Background(), Draft{
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_EmptyDraft(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.Create(context.Background(), Draft{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestUpdateLineQuantity_Grow(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	f := newFixture([]*product.Product{bread}, nil)
	ctx := context.Background()

	receipt, err := f.svc.Create(ctx, Draft{
		Lines: []DraftLine{{ProductID: bread.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	lineID := receipt.Sale.Lines[0].ID

	updated, err := f.svc.UpdateLineQuantity(ctx, receipt.Sale.ID, lineID, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(5), updated.Lines[0].Quantity)
	assert.True(t, updated.Total.Equal(types.MustMoney("7500")))
	// 10 - 2 at creation, - 3 more on the grow.
	assert.Equal(t, int64(5), f.products.products[bread.ID].Stock)
}

func TestUpdateLineQuantity_Shrink(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	f := newFixture([]*product.Product{bread}, nil)
	ctx := context.Background()

	receipt, err := f.svc.Create(ctx, Draft{
		Lines: []DraftLine{{ProductID: bread.ID, Quantity: 6}},
	})
	require.NoError(t, err)
	lineID := receipt.Sale.Lines[0].ID

	updated, err := f.svc.UpdateLineQuantity(ctx, receipt.Sale.ID, lineID, 2)
	require.NoError(t, err)

	assert.True(t, updated.Total.Equal(types.MustMoney("3000")))
	// 4 units returned to stock.
	assert.Equal(t, int64(8), f.products.products[bread.ID].Stock)

	// The reversal is in the ledger.
	last := f.stockLog.movements[len(f.stockLog.movements)-1]
	assert.Equal(t, stock.DirectionIn, last.Direction)
	assert.Equal(t, stock.ReasonSaleReversal, last.Reason)
	assert.Equal(t, int64(4), last.Quantity)
}

func TestUpdateLineQuantity_GrowBeyondStock(t *testing.T) {
	bread := testProduct("Pan", "1500", 5)
	f := newFixture([]*product.Product{bread}, nil)
	ctx := context.Background()

	receipt, err := f.svc.Create(ctx, Draft{
		Lines: []DraftLine{{ProductID: bread.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	lineID := receipt.Sale.Lines[0].ID

	// Only 1 left; growing from 4 to 6 needs 2.
	_, err = f.svc.UpdateLineQuantity(ctx, receipt.Sale.ID, lineID, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}

func TestUpdateLineQuantity_Invalid(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.UpdateLineQuantity(context.Background(), id.New(), id.New(), 0)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestDeleteLine(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	milk := testProduct("Leche", "1190", 10)
	f := newFixture([]*product.Product{bread, milk}, nil)
	ctx := context.Background()

	receipt, err := f.svc.Create(ctx, Draft{
		Lines: []DraftLine{
			{ProductID: bread.ID, Quantity: 2},
			{ProductID: milk.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	var breadLine *Line
	for _, l := range receipt.Sale.Lines {
		if l.ProductID == bread.ID {
			breadLine = l
		}
	}
	require.NotNil(t, breadLine)

	updated, err := f.svc.DeleteLine(ctx, receipt.Sale.ID, breadLine.ID)
	require.NoError(t, err)

	assert.Len(t, updated.Lines, 1)
	assert.True(t, updated.Total.Equal(types.MustMoney("1190")))
	// The 2 units came back.
	assert.Equal(t, int64(10), f.products.products[bread.ID].Stock)
}

func TestDeleteLine_UnknownLine(t *testing.T) {
	bread := testProduct("Pan", "1500", 10)
	f := newFixture([]*product.Product{bread}, nil)
	ctx := context.Background()

	receipt, err := f.svc.Create(ctx, Draft{
		Lines: []DraftLine{{ProductID: bread.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.DeleteLine(ctx, receipt.Sale.ID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
