package dto

import (
	"strings"
	"time"

	"schoolmanagement_backend/internals/features/school/classes/model"
)

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

type ClassCreateReq struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Code      *string `json:"code,omitempty" validate:"omitempty,max=40"`
	TeacherID *uint   `json:"teacher_id,omitempty" validate:"omitempty,gt=0"`
	Capacity  int     `json:"capacity" validate:"gte=0"`
	Schedule  *string `json:"schedule,omitempty"`
	Note      *string `json:"note,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (r *ClassCreateReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = trimPtr(r.Code)
	r.Schedule = trimPtr(r.Schedule)
	r.Note = trimPtr(r.Note)
}

func (r *ClassCreateReq) ToModel() *model.ClassModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.ClassModel{
		ClassName:      r.Name,
		ClassCode:      r.Code,
		ClassTeacherID: r.TeacherID,
		ClassCapacity:  r.Capacity,
		ClassSchedule:  r.Schedule,
		ClassNote:      r.Note,
		ClassIsActive:  active,
	}
}

// ClassPatchReq: ClearTeacher=true melepas guru dari kelas.
type ClassPatchReq struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Code         *string `json:"code,omitempty" validate:"omitempty,max=40"`
	TeacherID    *uint   `json:"teacher_id,omitempty" validate:"omitempty,gt=0"`
	ClearTeacher bool    `json:"clear_teacher,omitempty"`
	Capacity     *int    `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	Schedule     *string `json:"schedule,omitempty"`
	Note         *string `json:"note,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *ClassPatchReq) Apply(m *model.ClassModel) {
	if r.Name != nil {
		m.ClassName = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		m.ClassCode = trimPtr(r.Code)
	}
	if r.ClearTeacher {
		m.ClassTeacherID = nil
	} else if r.TeacherID != nil {
		id := *r.TeacherID
		m.ClassTeacherID = &id
	}
	if r.Capacity != nil {
		m.ClassCapacity = *r.Capacity
	}
	if r.Schedule != nil {
		m.ClassSchedule = trimPtr(r.Schedule)
	}
	if r.Note != nil {
		m.ClassNote = trimPtr(r.Note)
	}
	if r.IsActive != nil {
		m.ClassIsActive = *r.IsActive
	}
}

type ClassResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Code        *string   `json:"code"`
	TeacherID   *uint     `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	Capacity    int       `json:"capacity"`
	Schedule    *string   `json:"schedule"`
	Note        *string   `json:"note"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(m *model.ClassModel, teacherName string) ClassResponse {
	return ClassResponse{
		ID:          m.ClassID,
		Name:        m.ClassName,
		DisplayName: m.DisplayName(teacherName),
		Code:        m.ClassCode,
		TeacherID:   m.ClassTeacherID,
		TeacherName: teacherName,
		Capacity:    m.ClassCapacity,
		Schedule:    m.ClassSchedule,
		Note:        m.ClassNote,
		IsActive:    m.ClassIsActive,
		CreatedAt:   m.ClassCreatedAt,
		UpdatedAt:   m.ClassUpdatedAt,
	}
}
