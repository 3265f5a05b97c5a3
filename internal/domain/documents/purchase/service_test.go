package purchase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/types"
	"almacen/internal/domain"
	"almacen/internal/domain/catalogs/product"
	"almacen/internal/domain/catalogs/supplier"
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

type fakeSupplierRepo struct {
	suppliers map[id.ID]*supplier.Supplier
}

func newFakeSupplierRepo(items ...*supplier.Supplier) *fakeSupplierRepo {
	r := &fakeSupplierRepo{suppliers: make(map[id.ID]*supplier.Supplier)}
	for _, s := range items {
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *fakeSupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	s, ok := r.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID)
	}
	return s, nil
}

func (r *fakeSupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierRepo) SetDeletionMark(ctx context.Context, supplierID id.ID, marked bool) error {
	s, ok := r.suppliers[supplierID]
	if !ok {
		return apperror.NewNotFound("supplier", supplierID)
	}
	s.DeletionMark = marked
	return nil
}

func (r *fakeSupplierRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*supplier.Supplier], error) {
	return domain.ListResult[*supplier.Supplier]{}, nil
}

func (r *fakeSupplierRepo) Exists(ctx context.Context, supplierID id.ID) (bool, error) {
	_, ok := r.suppliers[supplierID]
	return ok, nil
}

func (r *fakeSupplierRepo) GetByRUT(ctx context.Context, rut string) (*supplier.Supplier, error) {
	return nil, apperror.NewNotFound("supplier", rut)
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

type fakeOrderRepo struct {
	orders map[id.ID]*Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[id.ID]*Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("purchase_order", orderID)
	}
	return o, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	var out []*Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

type fixture struct {
	svc       *Service
	orders    *fakeOrderRepo
	products  *fakeProductRepo
	suppliers *fakeSupplierRepo
	stockLog  *fakeStockMovementRepo
}

func newFixture(products []*product.Product, suppliers []*supplier.Supplier) *fixture {
	log := logger.Default()
	txm := fakeTxManager{}

	productRepo := newFakeProductRepo(products...)
	supplierRepo := newFakeSupplierRepo(suppliers...)
	stockLog := &fakeStockMovementRepo{}
	orderRepo := newFakeOrderRepo()

	stockSvc := stock.NewService(productRepo, stockLog, txm, nil, log)

	return &fixture{
		svc:       NewService(orderRepo, productRepo, supplierRepo, stockSvc, txm, log),
		orders:    orderRepo,
		products:  productRepo,
		suppliers: supplierRepo,
		stockLog:  stockLog,
	}
}

func testProduct(name string, onHand int64) *product.Product {
	p := product.New(name, types.MustMoney("1990"))
	p.Stock = onHand
	return p
}

func TestReceive_FromSupplier(t *testing.T) {
	rice := testProduct("Arroz", 3)
	oil := testProduct("Aceite", 0)
	vendor := supplier.New("Distribuidora Sur")
	f := newFixture([]*product.Product{rice, oil}, []*supplier.Supplier{vendor})

	order, err := f.svc.Receive(context.Background(), Draft{
		SupplierID: &vendor.ID,
		Lines: []DraftLine{
			{ProductID: rice.ID, Quantity: 20, UnitCost: types.MustMoney("850")},
			{ProductID: oil.ID, Quantity: 12, UnitCost: types.MustMoney("2100")},
		},
	})
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(types.MustMoney("42200")), "got total %s", order.Total)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Arroz", order.Lines[0].ProductName)
	assert.True(t, order.Lines[0].Subtotal.Equal(types.MustMoney("17000")))

	// Stock went up.
	assert.Equal(t, int64(23), f.products.products[rice.ID].Stock)
	assert.Equal(t, int64(12), f.products.products[oil.ID].Stock)
	assert.Len(t, f.stockLog.movements, 2)
	assert.Equal(t, stock.ReasonPurchase, f.stockLog.movements[0].Reason)

	// The latest cost materialized on the products.
	assert.True(t, f.products.products[rice.ID].PurchasePrice.Equal(types.MustMoney("850")))
	assert.True(t, f.products.products[oil.ID].PurchasePrice.Equal(types.MustMoney("2100")))
}

func TestReceive_FreeTextVendor(t *testing.T) {
	rice := testProduct("Arroz", 0)
	f := newFixture([]*product.Product{rice}, nil)

	order, err := f.svc.Receive(context.Background(), Draft{
		SupplierName: "feria mayorista",
		Lines: []DraftLine{
			{ProductID: rice.ID, Quantity: 5, UnitCost: types.MustMoney("800")},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, order.SupplierID)
	assert.Equal(t, "feria mayorista", order.SupplierName)
}

func TestReceive_VendorRequired(t *testing.T) {
	rice := testProduct("Arroz", 0)
	f := newFixture([]*product.Product{rice}, nil)

	_, err := f.svc.Receive(context.Background(), Draft{
		Lines: []DraftLine{
			{ProductID: rice.ID, Quantity: 5, UnitCost: types.MustMoney("800")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, int64(0), f.products.products[rice.ID].Stock)
}

func TestReceive_UnknownSupplier(t *testing.T) {
	rice := testProduct("Arroz", 0)
	f := newFixture([]*product.Product{rice}, nil)

	ghost := id.New()
	_, err := f.svc.Receive(context.Background(), Draft{
		SupplierID: &ghost,
		Lines: []DraftLine{
			{ProductID: rice.ID, Quantity: 5, UnitCost: types.MustMoney("800")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceive_UnknownProduct(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.svc.Receive(context.Background(), Draft{
		SupplierName: "feria",
		Lines: []DraftLine{
			{ProductID: id.New(), Quantity: 5, UnitCost: types.MustMoney("800")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceive_Validation(t *testing.T) {
	rice := testProduct("Arroz", 0)
	f := newFixture([]*product.Product{rice}, nil)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, Draft{SupplierName: "feria"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = f.svc.Receive(ctx, Draft{
		SupplierName: "feria",
		Lines: []DraftLine{
			{ProductID: rice.ID, Quantity: 0, UnitCost: types.MustMoney("800")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = f.svc.Receive(ctx, Draft{
		SupplierName: "feria",
		Lines: []DraftLine{
			{ProductID: rice.ID, Quantity: 5, UnitCost: types.MustMoney("0")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}
