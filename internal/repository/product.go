package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID uint) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Search(ctx context.Context, query, category string) ([]*model.Product, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int32) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: 1, Name: "Paracetamol 500mg", Description: "Pain and fever relief, 20 tablets", Category: "Pain relief", Price: 4.50, Stock: 200},
		{ID: 2, Name: "Ibuprofen 200mg", Description: "Anti-inflammatory, 24 tablets", Category: "Pain relief", Price: 5.90, Stock: 150},
		{ID: 3, Name: "Vitamin D3 1000IU", Description: "Daily supplement, 90 capsules", Category: "Vitamins", Price: 12.00, Stock: 80},
		{ID: 4, Name: "Amoxicillin 250mg", Description: "Antibiotic, 21 capsules", Category: "Antibiotics", Price: 45.00, Stock: 40, RequiresPrescription: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return apperr.Wrap(apperr.ErrStorage, "insert product: %v", err)
	}
	return nil
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(product)
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "update product: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "product %d not found", product.ID)
	}
	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, productID uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Product{}, productID)
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "delete product: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "product %d not found", productID)
	}
	return nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, wrapLookupErr(err, "product %d", productID)
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "find products: %v", err)
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Order("name").Find(&products).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "list products: %v", err)
	}

	return products, nil
}

func (r *productRepoImpl) Search(ctx context.Context, query, category string) ([]*model.Product, error) {
	tx := r.db.WithContext(ctx)
	if query != "" {
		tx = tx.Where("name LIKE ? OR description LIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var products []*model.Product
	if err := tx.Order("name").Find(&products).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "search products: %v", err)
	}

	return products, nil
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int32) error {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "decrement stock: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrValidation, "insufficient stock for product %d", productID)
	}
	return nil
}
