package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"orderms/internal/models"
	"orderms/internal/repositories"
	"orderms/pkg/rabbitmq"
)

// OrderService handles cart evaluation, order placement and order queries.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	userRepo     repositories.UserRepository
	tx           repositories.TxManager
	mqClient     *rabbitmq.Client
	placeTimeout time.Duration
}

// NewOrderService creates a new OrderService. mqClient may be nil when no
// broker is configured; placeTimeout <= 0 disables the placement deadline.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	tx repositories.TxManager,
	mqClient *rabbitmq.Client,
	placeTimeout time.Duration,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		tx:           tx,
		mqClient:     mqClient,
		placeTimeout: placeTimeout,
	}
}

// CalculateCart prices a cart without mutating anything. Lines come back in
// input order; a line whose quantity exceeds stock is marked unavailable
// with a zero item total and contributes nothing to the totals. An unknown
// product id fails the whole call.
func (s *OrderService) CalculateCart(ctx context.Context, req *models.CartCalculationRequest) (*models.CartCalculationResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	items := make([]models.CartItemDetails, 0, len(req.Items))
	totalPrice := decimal.Zero
	totalItems := 0

	for _, cartItem := range req.Items {
		product, err := s.productRepo.GetByID(ctx, cartItem.ProductID)
		if err != nil {
			return nil, err
		}

		available := product.Stock >= cartItem.Quantity
		itemTotal := decimal.Zero
		if available {
			itemTotal = product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
			totalPrice = totalPrice.Add(itemTotal)
			totalItems += cartItem.Quantity
		}

		items = append(items, models.CartItemDetails{
			ProductID:      product.ID,
			ProductName:    product.Name,
			UnitPrice:      product.Price,
			Quantity:       cartItem.Quantity,
			ItemTotal:      itemTotal,
			Available:      available,
			AvailableStock: product.Stock,
		})
	}

	return &models.CartCalculationResponse{
		Items:      items,
		TotalPrice: totalPrice,
		TotalItems: totalItems,
	}, nil
}

// PlaceOrder turns a cart into a persisted order inside one transaction:
// each line re-reads its product under lock, checks stock, snapshots the
// unit price and decrements stock. Duplicate product ids are independent
// lines processed left to right, so a later line sees earlier decrements.
// Any failure rolls everything back.
func (s *OrderService) PlaceOrder(ctx context.Context, req *models.CartCalculationRequest, actorID string) (*models.Order, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	if s.placeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.placeTimeout)
		defer cancel()
	}

	order := &models.Order{ID: uuid.New().String()}
	if actorID != "" {
		order.UserID = &actorID
	}

	err := s.tx.WithTransaction(ctx, func(repos repositories.TxRepos) error {
		for _, cartItem := range req.Items {
			product, err := repos.Products.GetByIDForUpdate(ctx, cartItem.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < cartItem.Quantity {
				return &models.InsufficientStockError{ProductName: product.Name}
			}

			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				UnitPrice: product.Price,
				Quantity:  cartItem.Quantity,
			})

			product.Stock -= cartItem.Quantity
			if err := repos.Products.Update(ctx, product); err != nil {
				return err
			}
		}

		lines := make([]PriceLine, len(order.Items))
		for i := range order.Items {
			lines[i] = PriceLine{UnitPrice: &order.Items[i].UnitPrice, Quantity: order.Items[i].Quantity}
		}
		totalPrice, err := OrderTotal(lines)
		if err != nil {
			return err
		}
		order.TotalPrice = totalPrice

		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.publishOrderCreated(order)
	return order, nil
}

// translateStoreError maps store-level failures onto the domain taxonomy.
// Serialization and lock conflicts become retryable Conflict errors; an
// exceeded deadline becomes Timeout. Domain errors pass through untouched.
func translateStoreError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return models.ErrConflict
		}
	}
	return err
}

// publishOrderCreated emits an order.created event after commit. Broker
// failures are logged and swallowed; the order already persisted.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"orderId":    order.ID,
		"userId":     order.UserID,
		"totalPrice": order.TotalPrice,
		"items":      order.Items,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal order %s event: %v", order.ID, err)
		return
	}
	if err := s.mqClient.PublishOrderCreated(body); err != nil {
		log.Printf("Warning: failed to publish order.created for order %s: %v", order.ID, err)
	}
}

// GetOrderByID returns an order with its items.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// OrderSearchQuery carries the listing parameters of GET /api/orders.
type OrderSearchQuery struct {
	Search    string
	UserID    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Size      int
	SortBy    string
	SortDir   string
}

// SearchOrders returns a page of order summaries. A general search term is
// tried as an exact total price first; otherwise it is treated as a user
// email substring resolved to matching user ids.
func (s *OrderService) SearchOrders(ctx context.Context, query OrderSearchQuery) (*models.PageResponse[models.OrderSummaryResponse], error) {
	filter := repositories.OrderFilter{
		MinPrice:  query.MinPrice,
		MaxPrice:  query.MaxPrice,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	}
	if query.UserID != "" {
		userID := query.UserID
		filter.UserID = &userID
	}

	if term := strings.TrimSpace(query.Search); term != "" {
		if price, err := decimal.NewFromString(term); err == nil {
			filter.TotalPrice = &price
		} else {
			userIDs, err := s.userRepo.FindIDsByEmailContaining(ctx, strings.ToLower(term))
			if err != nil {
				return nil, err
			}
			if len(userIDs) == 0 {
				empty := models.NewPageResponse([]models.OrderSummaryResponse{}, query.Page, query.Size, 0)
				return &empty, nil
			}
			filter.UserIDs = userIDs
		}
	}

	orders, total, err := s.orderRepo.Search(ctx, filter, query.Page, query.Size, query.SortBy, query.SortDir)
	if err != nil {
		return nil, err
	}

	productNames, err := s.productNamesFor(ctx, orders)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.OrderSummaryResponse, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, s.toOrderSummary(ctx, &orders[i], productNames))
	}
	page := models.NewPageResponse(summaries, query.Page, query.Size, total)
	return &page, nil
}

// productNamesFor resolves every product id referenced by the page of orders
// in one batched read.
func (s *OrderService) productNamesFor(ctx context.Context, orders []models.Order) (map[string]string, error) {
	idSet := make(map[string]struct{})
	for i := range orders {
		for _, item := range orders[i].Items {
			idSet[item.ProductID] = struct{}{}
		}
	}
	names := make(map[string]string, len(idSet))
	if len(idSet) == 0 {
		return names, nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		names[products[i].ID] = products[i].Name
	}
	return names, nil
}

// toOrderSummary flattens an order into the listing shape, resolving the
// buyer's email and each line's product name.
func (s *OrderService) toOrderSummary(ctx context.Context, order *models.Order, productNames map[string]string) models.OrderSummaryResponse {
	itemResponses := make([]models.OrderItemResponse, 0, len(order.Items))
	totalItems := 0
	for _, item := range order.Items {
		productName := productNames[item.ProductID]
		itemResponses = append(itemResponses, models.OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: productName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			ItemTotal:   item.ItemTotal(),
		})
		totalItems += item.Quantity
	}

	userEmail := "Legacy Order"
	if order.UserID != nil {
		userEmail = "Unknown User"
		if user, err := s.userRepo.GetByID(ctx, *order.UserID); err == nil {
			userEmail = user.Email
		}
	}

	return models.OrderSummaryResponse{
		ID:         order.ID,
		CreatedAt:  order.CreatedAt,
		TotalPrice: order.TotalPrice,
		UserID:     order.UserID,
		UserEmail:  userEmail,
		TotalItems: totalItems,
		OrderItems: itemResponses,
	}
}
