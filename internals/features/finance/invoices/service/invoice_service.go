package service

import (
	"context"

	"schoolmanagement_backend/internals/features/finance/invoices/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

type InvoiceService struct {
	Repo repositories.Repository
}

func NewInvoiceService(repo repositories.Repository) *InvoiceService {
	return &InvoiceService{Repo: repo}
}

func (s *InvoiceService) List(ctx context.Context, f repositories.InvoiceFilter) ([]model.InvoiceModel, error) {
	list, err := s.Repo.ListInvoices(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (s *InvoiceService) Get(ctx context.Context, id uint) (*model.InvoiceModel, error) {
	m, err := s.Repo.GetInvoice(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Invoice ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return m, nil
}
