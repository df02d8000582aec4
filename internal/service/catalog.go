package service

import (
	"context"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
	"pharmacy-backend/internal/repository"
)

type CatalogService interface {
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, productID uint) (*model.Product, error)
	Search(ctx context.Context, query, category string) ([]*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID uint) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *catalogServiceImpl) Get(ctx context.Context, productID uint) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *catalogServiceImpl) Search(ctx context.Context, query, category string) ([]*model.Product, error) {
	return s.productRepo.Search(ctx, query, category)
}

func (s *catalogServiceImpl) Create(ctx context.Context, product *model.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.productRepo.Create(ctx, product)
}

func (s *catalogServiceImpl) Update(ctx context.Context, product *model.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.productRepo.Update(ctx, product)
}

func (s *catalogServiceImpl) Delete(ctx context.Context, productID uint) error {
	return s.productRepo.Delete(ctx, productID)
}

func validateProduct(product *model.Product) error {
	if product.Name == "" {
		return apperr.Wrap(apperr.ErrValidation, "product name is required")
	}
	if product.Price <= 0 {
		return apperr.Wrap(apperr.ErrValidation, "product price must be positive")
	}
	if product.Stock < 0 {
		return apperr.Wrap(apperr.ErrValidation, "product stock cannot be negative")
	}
	return nil
}
