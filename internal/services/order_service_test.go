package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderms/internal/models"
	"orderms/internal/repositories"
	"orderms/internal/services"
)

type orderFixture struct {
	service     *services.OrderService
	productRepo *repositories.MockProductRepository
	orderRepo   *repositories.MockOrderRepository
	userRepo    *repositories.MockUserRepository
}

func newOrderFixture(placeTimeout time.Duration) *orderFixture {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	userRepo := repositories.NewMockUserRepository()
	txManager := repositories.NewMockTxManager(productRepo, orderRepo)

	return &orderFixture{
		service:     services.NewOrderService(orderRepo, productRepo, userRepo, txManager, nil, placeTimeout),
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
	}
}

func (f *orderFixture) seedProduct(t *testing.T, name, priceStr string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: *price(t, priceStr),
		Stock: stock,
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))
	return product
}

func (f *orderFixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	product, err := f.productRepo.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

func (f *orderFixture) orderCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.orderRepo.Search(context.Background(), repositories.OrderFilter{}, 0, 10, "", "")
	require.NoError(t, err)
	return total
}

func TestPlaceOrderSuccess(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Wireless Mouse", "10.50", 5)

	order, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}},
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "21.00", order.TotalPrice.String())
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(product.Price))
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].ItemTotal().Equal(order.TotalPrice))
	require.NotNil(t, order.UserID)
	assert.Equal(t, "user-1", *order.UserID)

	assert.Equal(t, 3, f.stockOf(t, product.ID))
	assert.EqualValues(t, 1, f.orderCount(t))
}

func TestPlaceOrderMultipleProducts(t *testing.T) {
	f := newOrderFixture(0)
	first := f.seedProduct(t, "USB-C Hub", "10.00", 5)
	second := f.seedProduct(t, "Desk Lamp LED", "15.50", 2)
	third := f.seedProduct(t, "Portable Charger", "5.25", 10)

	order, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{
			{ProductID: first.ID, Quantity: 2},
			{ProductID: second.ID, Quantity: 1},
			{ProductID: third.ID, Quantity: 4},
		},
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "56.50", order.TotalPrice.String())
	require.Len(t, order.Items, 3)

	assert.Equal(t, 3, f.stockOf(t, first.ID))
	assert.Equal(t, 1, f.stockOf(t, second.ID))
	assert.Equal(t, 6, f.stockOf(t, third.ID))
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Standing Desk", "399.00", 1)

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}},
	}, "user-1")

	var insufficient *models.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Insufficient stock for product: Standing Desk", err.Error())

	assert.Equal(t, 1, f.stockOf(t, product.ID))
	assert.EqualValues(t, 0, f.orderCount(t))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	f := newOrderFixture(0)
	missingID := uuid.New().String()

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: missingID, Quantity: 1}},
	}, "user-1")

	var notFound *models.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Product not found with id: "+missingID, err.Error())
	assert.EqualValues(t, 0, f.orderCount(t))
}

func TestPlaceOrderDuplicateLinesWithinStock(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Webcam HD", "1.00", 3)

	order, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 1},
		},
	}, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "3.00", order.TotalPrice.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, 0, f.stockOf(t, product.ID))
}

func TestPlaceOrderDuplicateLinesRollBackFully(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Webcam HD", "1.00", 2)

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 1},
		},
	}, "user-1")

	var insufficient *models.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// the first line's decrement must not survive the failed second line
	assert.Equal(t, 2, f.stockOf(t, product.ID))
	assert.EqualValues(t, 0, f.orderCount(t))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newOrderFixture(0)

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{}, "user-1")
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	_, err = f.service.PlaceOrder(context.Background(), nil, "user-1")
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestPlaceOrderDeadlineExceeded(t *testing.T) {
	f := newOrderFixture(time.Nanosecond)
	product := f.seedProduct(t, "Wireless Mouse", "10.50", 5)

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}},
	}, "user-1")

	assert.ErrorIs(t, err, models.ErrTimeout)
	assert.Equal(t, 5, f.stockOf(t, product.ID))
	assert.EqualValues(t, 0, f.orderCount(t))
}

// failingTxManager aborts every transaction with a fixed store error, the
// way a contended database would.
type failingTxManager struct {
	err error
}

func (f failingTxManager) WithTransaction(_ context.Context, _ func(repos repositories.TxRepos) error) error {
	return f.err
}

func TestPlaceOrderSerializationFailureBecomesConflict(t *testing.T) {
	for _, code := range []string{"40001", "40P01"} {
		productRepo := repositories.NewMockProductRepository()
		orderRepo := repositories.NewMockOrderRepository()
		userRepo := repositories.NewMockUserRepository()
		svc := services.NewOrderService(orderRepo, productRepo, userRepo,
			failingTxManager{err: &pgconn.PgError{Code: code}}, nil, 0)

		_, err := svc.PlaceOrder(context.Background(), &models.CartCalculationRequest{
			Items: []models.CartItem{{ProductID: uuid.New().String(), Quantity: 1}},
		}, "user-1")

		assert.ErrorIs(t, err, models.ErrConflict, "pg error code %s", code)
	}
}

func TestPlaceOrderOtherStoreErrorsPassThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	svc := services.NewOrderService(
		repositories.NewMockOrderRepository(),
		repositories.NewMockProductRepository(),
		repositories.NewMockUserRepository(),
		failingTxManager{err: pgErr}, nil, 0)

	_, err := svc.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: uuid.New().String(), Quantity: 1}},
	}, "user-1")

	assert.NotErrorIs(t, err, models.ErrConflict)
	var got *pgconn.PgError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "23505", got.Code)
}

func TestPlaceOrderWithoutActorHasNoUser(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Wireless Mouse", "10.50", 5)

	order, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 1}},
	}, "")

	require.NoError(t, err)
	assert.Nil(t, order.UserID)
}

func TestCalculateCartMixedAvailability(t *testing.T) {
	f := newOrderFixture(0)
	scarce := f.seedProduct(t, "Laptop Pro 16", "2.00", 4)
	plenty := f.seedProduct(t, "Wireless Mouse", "5.00", 10)

	resp, err := f.service.CalculateCart(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{
			{ProductID: scarce.ID, Quantity: 10},
			{ProductID: plenty.ID, Quantity: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	assert.False(t, resp.Items[0].Available)
	assert.Equal(t, 4, resp.Items[0].AvailableStock)
	assert.True(t, resp.Items[0].ItemTotal.IsZero())

	assert.True(t, resp.Items[1].Available)
	assert.Equal(t, "10.00", resp.Items[1].ItemTotal.String())

	assert.Equal(t, "10.00", resp.TotalPrice.String())
	assert.Equal(t, 2, resp.TotalItems)
}

func TestCalculateCartDoesNotMutateStock(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Wireless Mouse", "10.50", 5)
	req := &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}},
	}

	first, err := f.service.CalculateCart(context.Background(), req)
	require.NoError(t, err)
	second, err := f.service.CalculateCart(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 5, f.stockOf(t, product.ID))
	assert.EqualValues(t, 0, f.orderCount(t))
}

func TestCalculateCartUnknownProduct(t *testing.T) {
	f := newOrderFixture(0)
	missingID := uuid.New().String()

	_, err := f.service.CalculateCart(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: missingID, Quantity: 1}},
	})

	var notFound *models.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCalculateCartEmpty(t *testing.T) {
	f := newOrderFixture(0)

	_, err := f.service.CalculateCart(context.Background(), &models.CartCalculationRequest{})
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestGetOrderByIDRoundTrip(t *testing.T) {
	f := newOrderFixture(0)
	first := f.seedProduct(t, "USB-C Hub", "39.00", 5)
	second := f.seedProduct(t, "Webcam HD", "45.00", 5)

	placed, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{
			{ProductID: first.ID, Quantity: 1},
			{ProductID: second.ID, Quantity: 2},
		},
	}, "user-1")
	require.NoError(t, err)

	loaded, err := f.service.GetOrderByID(context.Background(), placed.ID)
	require.NoError(t, err)

	assert.Equal(t, placed.ID, loaded.ID)
	assert.True(t, placed.TotalPrice.Equal(loaded.TotalPrice))
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, first.ID, loaded.Items[0].ProductID)
	assert.Equal(t, second.ID, loaded.Items[1].ProductID)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	f := newOrderFixture(0)

	_, err := f.service.GetOrderByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSearchOrdersByEmail(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Wireless Mouse", "24.50", 10)

	buyer := &models.User{Email: "rodrigo.perez@orderflow.com", Name: "Rodrigo Perez"}
	require.NoError(t, f.userRepo.Create(context.Background(), buyer))

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 1}},
	}, buyer.ID)
	require.NoError(t, err)

	page, err := f.service.SearchOrders(context.Background(), services.OrderSearchQuery{
		Search: "rodrigo",
		Page:   0,
		Size:   10,
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, buyer.Email, page.Content[0].UserEmail)
	assert.Equal(t, 1, page.Content[0].TotalItems)
	require.Len(t, page.Content[0].OrderItems, 1)
	assert.Equal(t, "Wireless Mouse", page.Content[0].OrderItems[0].ProductName)

	// no user matches the term, so the result is empty without hitting orders
	empty, err := f.service.SearchOrders(context.Background(), services.OrderSearchQuery{
		Search: "nobody",
		Page:   0,
		Size:   10,
	})
	require.NoError(t, err)
	assert.Empty(t, empty.Content)
	assert.EqualValues(t, 0, empty.TotalElements)
}

func TestSearchOrdersByTotalPrice(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Wireless Mouse", "10.50", 10)

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 2}},
	}, "")
	require.NoError(t, err)

	page, err := f.service.SearchOrders(context.Background(), services.OrderSearchQuery{
		Search: "21.00",
		Page:   0,
		Size:   10,
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.True(t, page.Content[0].TotalPrice.Equal(decimal.RequireFromString("21.00")))
	assert.Equal(t, "Legacy Order", page.Content[0].UserEmail)
	assert.Nil(t, page.Content[0].UserID)

	miss, err := f.service.SearchOrders(context.Background(), services.OrderSearchQuery{
		Search: "99.99",
		Page:   0,
		Size:   10,
	})
	require.NoError(t, err)
	assert.Empty(t, miss.Content)
}

// countingProductRepo counts read calls so tests can pin down the query
// shape of listings.
type countingProductRepo struct {
	*repositories.MockProductRepository
	getByIDCalls   int
	findByIDsCalls int
}

func (c *countingProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	c.getByIDCalls++
	return c.MockProductRepository.GetByID(ctx, id)
}

func (c *countingProductRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	c.findByIDsCalls++
	return c.MockProductRepository.FindByIDs(ctx, ids)
}

func TestSearchOrdersBatchesProductLookups(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	userRepo := repositories.NewMockUserRepository()
	counting := &countingProductRepo{MockProductRepository: productRepo}
	svc := services.NewOrderService(orderRepo, counting, userRepo,
		repositories.NewMockTxManager(productRepo, orderRepo), nil, 0)

	first := &models.Product{Name: "Wireless Mouse", Price: *price(t, "24.50"), Stock: 20}
	second := &models.Product{Name: "USB-C Hub", Price: *price(t, "39.00"), Stock: 20}
	require.NoError(t, productRepo.Create(context.Background(), first))
	require.NoError(t, productRepo.Create(context.Background(), second))

	for i := 0; i < 2; i++ {
		_, err := svc.PlaceOrder(context.Background(), &models.CartCalculationRequest{
			Items: []models.CartItem{
				{ProductID: first.ID, Quantity: 1},
				{ProductID: second.ID, Quantity: 2},
			},
		}, "")
		require.NoError(t, err)
	}

	counting.getByIDCalls = 0
	counting.findByIDsCalls = 0

	page, err := svc.SearchOrders(context.Background(), services.OrderSearchQuery{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	for _, summary := range page.Content {
		require.Len(t, summary.OrderItems, 2)
		for _, item := range summary.OrderItems {
			assert.NotEmpty(t, item.ProductName)
		}
	}

	// one batched read per page, never one per item
	assert.Equal(t, 1, counting.findByIDsCalls)
	assert.Equal(t, 0, counting.getByIDCalls)
}

func TestSearchOrdersUnknownUserEmailFallback(t *testing.T) {
	f := newOrderFixture(0)
	product := f.seedProduct(t, "Wireless Mouse", "24.50", 10)

	_, err := f.service.PlaceOrder(context.Background(), &models.CartCalculationRequest{
		Items: []models.CartItem{{ProductID: product.ID, Quantity: 1}},
	}, uuid.New().String())
	require.NoError(t, err)

	page, err := f.service.SearchOrders(context.Background(), services.OrderSearchQuery{Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Unknown User", page.Content[0].UserEmail)
}
