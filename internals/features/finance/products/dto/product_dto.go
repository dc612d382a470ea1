package dto

import (
	"strings"

	"schoolmanagement_backend/internals/features/finance/products/model"
)

type ProductCreateReq struct {
	Name      string `json:"name" validate:"required,max=120"`
	ListPrice int64  `json:"list_price" validate:"gte=0"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (r *ProductCreateReq) ToModel() *model.ProductModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.ProductModel{
		ProductName:      strings.TrimSpace(r.Name),
		ProductListPrice: r.ListPrice,
		ProductIsActive:  active,
	}
}

// ProductPatchReq: perubahan harga hanya berlaku untuk run billing berikutnya.
type ProductPatchReq struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=120"`
	ListPrice *int64  `json:"list_price,omitempty" validate:"omitempty,gte=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *ProductPatchReq) Apply(m *model.ProductModel) {
	if r.Name != nil {
		m.ProductName = strings.TrimSpace(*r.Name)
	}
	if r.ListPrice != nil {
		m.ProductListPrice = *r.ListPrice
	}
	if r.IsActive != nil {
		m.ProductIsActive = *r.IsActive
	}
}

type ProductResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ListPrice int64  `json:"list_price"`
	IsActive  bool   `json:"is_active"`
}

func FromModel(m *model.ProductModel) ProductResponse {
	return ProductResponse{
		ID:        m.ProductID,
		Name:      m.ProductName,
		ListPrice: m.ProductListPrice,
		IsActive:  m.ProductIsActive,
	}
}
