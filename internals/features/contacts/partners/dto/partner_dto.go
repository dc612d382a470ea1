package dto

import (
	"strings"

	"schoolmanagement_backend/internals/features/contacts/partners/model"
)

type PartnerCreateReq struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

func (r *PartnerCreateReq) ToModel() *model.PartnerModel {
	m := &model.PartnerModel{
		PartnerName:     strings.TrimSpace(r.Name),
		PartnerIsActive: true,
	}
	if r.Email != nil && strings.TrimSpace(*r.Email) != "" {
		e := strings.TrimSpace(*r.Email)
		m.PartnerEmail = &e
	}
	if r.Phone != nil && strings.TrimSpace(*r.Phone) != "" {
		p := strings.TrimSpace(*r.Phone)
		m.PartnerPhone = &p
	}
	return m
}

type PartnerResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	IsActive bool    `json:"is_active"`
}

func FromModel(m *model.PartnerModel) PartnerResponse {
	return PartnerResponse{
		ID:       m.PartnerID,
		Name:     m.PartnerName,
		Email:    m.PartnerEmail,
		Phone:    m.PartnerPhone,
		IsActive: m.PartnerIsActive,
	}
}
