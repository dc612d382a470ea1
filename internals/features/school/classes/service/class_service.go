// file: internals/features/school/classes/service/class_service.go
package service

import (
	"context"
	"strings"

	"schoolmanagement_backend/internals/features/school/classes/model"
	teacherService "schoolmanagement_backend/internals/features/school/teachers/service"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

/* =========================================================
   Capacity policy
========================================================= */

// CapacityPolicy decides whether one more student may join a class.
type CapacityPolicy interface {
	CheckAssign(ctx context.Context, tx repositories.Repository, class *model.ClassModel) error
}

// AdvisoryCapacity: kapasitas hanya informasi, tidak pernah menolak.
type AdvisoryCapacity struct{}

func (AdvisoryCapacity) CheckAssign(context.Context, repositories.Repository, *model.ClassModel) error {
	return nil
}

// EnforcedCapacity menolak penempatan di atas class_capacity (0 = tanpa batas).
type EnforcedCapacity struct{}

func (EnforcedCapacity) CheckAssign(ctx context.Context, tx repositories.Repository, class *model.ClassModel) error {
	if class.ClassCapacity <= 0 {
		return nil
	}
	n, err := tx.CountStudentsInClass(ctx, class.ClassID)
	if err != nil {
		return apperror.Internal(err)
	}
	if n >= class.ClassCapacity {
		return apperror.Validation("Kelas %s sudah penuh (kapasitas %d).", class.ClassName, class.ClassCapacity)
	}
	return nil
}

func CapacityPolicyFor(enforced bool) CapacityPolicy {
	if enforced {
		return EnforcedCapacity{}
	}
	return AdvisoryCapacity{}
}

/* =========================================================
   Service
========================================================= */

type ClassService struct {
	Repo repositories.Repository
}

func NewClassService(repo repositories.Repository) *ClassService {
	return &ClassService{Repo: repo}
}

func validateClass(ctx context.Context, tx repositories.Repository, m *model.ClassModel) error {
	m.ClassName = strings.TrimSpace(m.ClassName)
	if m.ClassName == "" {
		return apperror.Validation("Field 'name' wajib diisi!")
	}
	if m.ClassCapacity < 0 {
		return apperror.Validation("Kapasitas kelas tidak boleh negatif.")
	}
	if m.ClassTeacherID != nil {
		if _, err := tx.GetTeacher(ctx, *m.ClassTeacherID); err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Teacher ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
	}
	return nil
}

func (s *ClassService) List(ctx context.Context, f repositories.ClassFilter) ([]model.ClassModel, error) {
	list, err := s.Repo.ListClasses(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (s *ClassService) Get(ctx context.Context, id uint) (*model.ClassModel, error) {
	m, err := s.Repo.GetClass(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Class ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return m, nil
}

// TeacherName returns "" when the class has no teacher.
func (s *ClassService) TeacherName(ctx context.Context, m *model.ClassModel) string {
	if m == nil || m.ClassTeacherID == nil {
		return ""
	}
	t, err := s.Repo.GetTeacher(ctx, *m.ClassTeacherID)
	if err != nil {
		return ""
	}
	return t.TeacherName
}

func (s *ClassService) Create(ctx context.Context, m *model.ClassModel) error {
	return s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := validateClass(ctx, tx, m); err != nil {
			return err
		}
		m.ClassID = 0
		if err := tx.CreateClass(ctx, m); err != nil {
			return apperror.Internal(err)
		}
		// kelas baru belum punya siswa, tapi count tetap dihitung ulang
		if err := teacherService.RecomputeStudentCount(ctx, tx, m.ClassTeacherID); err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
}

func (s *ClassService) Update(ctx context.Context, id uint, patch func(m *model.ClassModel)) (*model.ClassModel, error) {
	var out *model.ClassModel
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		m, err := tx.GetClass(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Class ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
		oldTeacher := m.ClassTeacherID
		patch(m)
		m.ClassID = id

		if err := validateClass(ctx, tx, m); err != nil {
			return err
		}
		if err := tx.SaveClass(ctx, m); err != nil {
			return apperror.Internal(err)
		}
		if !sameID(oldTeacher, m.ClassTeacherID) {
			if err := teacherService.RecomputeStudentCount(ctx, tx, oldTeacher); err != nil {
				return apperror.Internal(err)
			}
			if err := teacherService.RecomputeStudentCount(ctx, tx, m.ClassTeacherID); err != nil {
				return apperror.Internal(err)
			}
		}
		out = m
		return nil
	})
	return out, err
}

// Delete: siswa di kelas ini jadi tanpa kelas, count guru dihitung ulang.
func (s *ClassService) Delete(ctx context.Context, id uint) error {
	return s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		m, err := tx.GetClass(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Class ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
		if err := tx.DeleteClass(ctx, id); err != nil {
			return apperror.Internal(err)
		}
		if err := teacherService.RecomputeStudentCount(ctx, tx, m.ClassTeacherID); err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
