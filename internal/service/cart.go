package service

import (
	"context"

	"github.com/shopspring/decimal"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/repository"
)

// Cart is a user's cart contents with the running total.
type Cart struct {
	Items []*model.CartItem `json:"items"`
	Total float64           `json:"total"`
}

type CartService interface {
	Add(ctx context.Context, userID, productID uint, quantity int32) error
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int32) error
	Remove(ctx context.Context, userID, productID uint) error
	Get(ctx context.Context, userID uint) (*Cart, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) Add(ctx context.Context, userID, productID uint, quantity int32) error {
	if quantity <= 0 {
		return apperr.Wrap(apperr.ErrValidation, "quantity must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return apperr.Wrap(apperr.ErrValidation, "only %d of %s in stock", product.Stock, product.Name)
	}

	return s.cartRepo.AddItem(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int32) error {
	if quantity <= 0 {
		// dropping to zero is a removal
		return s.cartRepo.RemoveItem(ctx, userID, productID)
	}
	return s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID, productID uint) error {
	return s.cartRepo.RemoveItem(ctx, userID, productID)
}

func (s *cartServiceImpl) Get(ctx context.Context, userID uint) (*Cart, error) {
	items, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		total = total.Add(decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt32(item.Quantity)))
	}

	f, _ := total.Float64()
	return &Cart{
		Items: items,
		Total: f,
	}, nil
}
