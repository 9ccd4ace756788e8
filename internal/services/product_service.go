package services

import (
	"errors"

	"momentum_backend/internal/models"
	"momentum_backend/internal/repositories"
	"momentum_backend/pkg/apperrors"
)

type ProductService interface {
	List() ([]models.Product, error)
	Get(id string) (*models.Product, error)
	Create(req *models.CreateProductRequest) (*models.Product, error)
	Update(id string, req *models.UpdateProductRequest) (*models.Product, error)
	Delete(id string) error
}

type ProductServiceImpl struct {
	products repositories.ProductRepository
}

func NewProductService(products repositories.ProductRepository) *ProductServiceImpl {
	return &ProductServiceImpl{products: products}
}

func (s *ProductServiceImpl) List() ([]models.Product, error) {
	products, err := s.products.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return products, nil
}

func (s *ProductServiceImpl) Get(id string) (*models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ProductNotFound()
		}
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Create(req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		SKU:         req.SKU,
	}
	if err := s.products.Create(product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Update(id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}

	if err := s.products.Update(product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Delete(id string) error {
	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return apperrors.ProductNotFound()
		}
		return apperrors.InternalError(err)
	}
	return nil
}
