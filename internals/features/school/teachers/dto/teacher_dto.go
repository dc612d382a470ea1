package dto

import (
	"strings"
	"time"

	"schoolmanagement_backend/internals/features/school/teachers/model"
)

/* =========================================================
   REQUEST: CREATE
   ========================================================= */

type TeacherCreateReq struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Phone    string  `json:"phone" validate:"required,max=30"`
	Address  *string `json:"address,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Note     *string `json:"note,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func (r *TeacherCreateReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = trimPtr(r.Address)
	r.Email = trimPtr(r.Email)
	r.Note = trimPtr(r.Note)
}

func (r *TeacherCreateReq) ToModel() *model.TeacherModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.TeacherModel{
		TeacherName:     r.Name,
		TeacherPhone:    r.Phone,
		TeacherAddress:  r.Address,
		TeacherEmail:    r.Email,
		TeacherNote:     r.Note,
		TeacherIsActive: active,
	}
}

/* =========================================================
   REQUEST: PATCH (student_count tidak bisa di-patch)
   ========================================================= */

type TeacherPatchReq struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address  *string `json:"address,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Note     *string `json:"note,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *TeacherPatchReq) Apply(m *model.TeacherModel) {
	if r.Name != nil {
		m.TeacherName = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		m.TeacherPhone = strings.TrimSpace(*r.Phone)
	}
	if r.Address != nil {
		m.TeacherAddress = trimPtr(r.Address)
	}
	if r.Email != nil {
		m.TeacherEmail = trimPtr(r.Email)
	}
	if r.Note != nil {
		m.TeacherNote = trimPtr(r.Note)
	}
	if r.IsActive != nil {
		m.TeacherIsActive = *r.IsActive
	}
}

/* =========================================================
   RESPONSE
   ========================================================= */

// TeacherListItem is the public GET /api/teachers shape.
type TeacherListItem struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"` // "" kalau belum diisi
	StudentCount int     `json:"student_count"`
}

func ToListItem(m model.TeacherModel) TeacherListItem {
	item := TeacherListItem{
		ID:           m.TeacherID,
		Name:         m.TeacherName,
		Phone:        m.TeacherPhone,
		StudentCount: m.TeacherStudentCount,
	}
	if m.TeacherEmail != nil {
		item.Email = *m.TeacherEmail
	}
	return item
}

func ToListItems(list []model.TeacherModel) []TeacherListItem {
	out := make([]TeacherListItem, 0, len(list))
	for _, m := range list {
		out = append(out, ToListItem(m))
	}
	return out
}

type TeacherResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Phone        string    `json:"phone"`
	Address      *string   `json:"address"`
	Email        *string   `json:"email"`
	Note         *string   `json:"note"`
	IsActive     bool      `json:"is_active"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromModel(m *model.TeacherModel) TeacherResponse {
	return TeacherResponse{
		ID:           m.TeacherID,
		Name:         m.TeacherName,
		DisplayName:  m.DisplayName(),
		Phone:        m.TeacherPhone,
		Address:      m.TeacherAddress,
		Email:        m.TeacherEmail,
		Note:         m.TeacherNote,
		IsActive:     m.TeacherIsActive,
		StudentCount: m.TeacherStudentCount,
		CreatedAt:    m.TeacherCreatedAt,
		UpdatedAt:    m.TeacherUpdatedAt,
	}
}
