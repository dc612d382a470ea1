package service

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"schoolmanagement_backend/internals/features/finance/products/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

type ProductService struct {
	Repo repositories.Repository
}

func NewProductService(repo repositories.Repository) *ProductService {
	return &ProductService{Repo: repo}
}

func validateProduct(m *model.ProductModel) error {
	m.ProductName = strings.TrimSpace(m.ProductName)
	if m.ProductName == "" {
		return apperror.Validation("Field 'name' wajib diisi!")
	}
	if m.ProductListPrice < 0 {
		return apperror.Validation("Harga produk tidak boleh negatif.")
	}
	return nil
}

func duplicateName(name string) *apperror.Error {
	return apperror.Duplicate("Produk '%s' sudah ada.", name)
}

func (s *ProductService) Create(ctx context.Context, m *model.ProductModel) error {
	if err := validateProduct(m); err != nil {
		return err
	}
	m.ProductID = 0
	if err := s.Repo.CreateProduct(ctx, m); err != nil {
		if repositories.IsDuplicate(err) {
			return duplicateName(m.ProductName).Wrap(err)
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *ProductService) Update(ctx context.Context, id uint, patch func(m *model.ProductModel)) (*model.ProductModel, error) {
	var out *model.ProductModel
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		m, err := tx.GetProduct(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Product ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
		patch(m)
		m.ProductID = id
		if err := validateProduct(m); err != nil {
			return err
		}
		if err := tx.SaveProduct(ctx, m); err != nil {
			if repositories.IsDuplicate(err) {
				return duplicateName(m.ProductName).Wrap(err)
			}
			return apperror.Internal(err)
		}
		out = m
		return nil
	})
	return out, err
}

func (s *ProductService) List(ctx context.Context) ([]model.ProductModel, error) {
	list, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// EnsureProduct creates the named product when missing (dipakai seeder).
// Produk yang sudah ada tidak diubah.
func (s *ProductService) EnsureProduct(ctx context.Context, name string, price int64) (*model.ProductModel, bool, error) {
	existing, err := s.Repo.FindProductByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, false, apperror.Internal(err)
	}
	m := &model.ProductModel{ProductName: name, ProductListPrice: price, ProductIsActive: true}
	if err := s.Create(ctx, m); err != nil {
		if apperror.Is(err, apperror.KindDuplicate) {
			existing, ferr := s.Repo.FindProductByName(ctx, name)
			if ferr != nil {
				return nil, false, apperror.Internal(ferr)
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	log.WithFields(log.Fields{"product": name, "price": price}).Info("product provisioned")
	return m, true, nil
}
