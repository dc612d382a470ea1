package service

import (
	"context"
	"strings"

	"schoolmanagement_backend/internals/features/contacts/partners/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

type PartnerService struct {
	Repo repositories.Repository
}

func NewPartnerService(repo repositories.Repository) *PartnerService {
	return &PartnerService{Repo: repo}
}

func (s *PartnerService) Create(ctx context.Context, m *model.PartnerModel) error {
	m.PartnerName = strings.TrimSpace(m.PartnerName)
	if m.PartnerName == "" {
		return apperror.Validation("Field 'name' wajib diisi!")
	}
	m.PartnerID = 0
	if err := s.Repo.CreatePartner(ctx, m); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *PartnerService) Get(ctx context.Context, id uint) (*model.PartnerModel, error) {
	m, err := s.Repo.GetPartner(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Partner ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return m, nil
}

func (s *PartnerService) List(ctx context.Context) ([]model.PartnerModel, error) {
	list, err := s.Repo.ListPartners(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}
