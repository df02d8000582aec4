package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

type CartRepository interface {
	// AddItem inserts the cart row or bumps the quantity when the product is
	// already in the user's cart.
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int32) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	List(ctx context.Context, userID uint) ([]*model.CartItem, error)
	Clear(ctx context.Context, tx *gorm.DB, userID uint) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) AddItem(ctx context.Context, item *model.CartItem) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "add cart item: %v", err)
	}
	return nil
}

func (r *cartRepoImpl) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int32) error {
	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "update cart item: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "product %d not in cart", productID)
	}
	return nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, userID, productID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "remove cart item: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "product %d not in cart", productID)
	}
	return nil
}

func (r *cartRepoImpl) List(ctx context.Context, userID uint) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "list cart items: %v", err)
	}

	return items, nil
}

func (r *cartRepoImpl) Clear(ctx context.Context, tx *gorm.DB, userID uint) error {
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "clear cart: %v", err)
	}
	return nil
}
