// file: internals/features/school/teachers/service/teacher_service.go
package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"schoolmanagement_backend/internals/features/school/teachers/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

type TeacherService struct {
	Repo repositories.Repository
}

func NewTeacherService(repo repositories.Repository) *TeacherService {
	return &TeacherService{Repo: repo}
}

func phoneTakenError(phone string) *apperror.Error {
	return apperror.Duplicate("Nomor telepon '%s' sudah digunakan oleh guru lain.", phone)
}

func validateTeacher(m *model.TeacherModel) error {
	m.TeacherName = strings.TrimSpace(m.TeacherName)
	m.TeacherPhone = strings.TrimSpace(m.TeacherPhone)
	if m.TeacherName == "" {
		return apperror.Validation("Field 'name' wajib diisi!")
	}
	if m.TeacherPhone == "" {
		return apperror.Validation("Field 'phone' wajib diisi!")
	}
	return nil
}

// ensurePhoneFree: pre-check untuk pesan yang ramah; unique index tetap jadi penentu.
func ensurePhoneFree(ctx context.Context, tx repositories.Repository, phone string, selfID uint) error {
	_, err := tx.FindTeacherByPhone(ctx, phone, selfID)
	switch {
	case err == nil:
		return phoneTakenError(phone)
	case repositories.IsNotFound(err):
		return nil
	default:
		return apperror.Internal(err)
	}
}

func (s *TeacherService) List(ctx context.Context, onlyActive bool) ([]model.TeacherModel, error) {
	list, err := s.Repo.ListTeachers(ctx, repositories.TeacherFilter{OnlyActive: onlyActive})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (s *TeacherService) Get(ctx context.Context, id uint) (*model.TeacherModel, error) {
	m, err := s.Repo.GetTeacher(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Teacher ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return m, nil
}

// Create inserts a teacher. student_count always starts at 0.
func (s *TeacherService) Create(ctx context.Context, m *model.TeacherModel) error {
	if err := validateTeacher(m); err != nil {
		return err
	}
	m.TeacherID = 0
	m.TeacherStudentCount = 0

	return s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := ensurePhoneFree(ctx, tx, m.TeacherPhone, 0); err != nil {
			return err
		}
		if err := tx.CreateTeacher(ctx, m); err != nil {
			if repositories.IsDuplicate(err) {
				return phoneTakenError(m.TeacherPhone).Wrap(err)
			}
			return apperror.Internal(err)
		}
		return nil
	})
}

// Update loads the teacher, applies patch, and re-validates.
// student_count tidak bisa diubah lewat patch.
func (s *TeacherService) Update(ctx context.Context, id uint, patch func(m *model.TeacherModel)) (*model.TeacherModel, error) {
	var out *model.TeacherModel
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		m, err := tx.GetTeacher(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Teacher ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
		count := m.TeacherStudentCount
		patch(m)
		m.TeacherID = id
		m.TeacherStudentCount = count

		if err := validateTeacher(m); err != nil {
			return err
		}
		if err := ensurePhoneFree(ctx, tx, m.TeacherPhone, id); err != nil {
			return err
		}
		if err := tx.SaveTeacher(ctx, m); err != nil {
			if repositories.IsDuplicate(err) {
				return phoneTakenError(m.TeacherPhone).Wrap(err)
			}
			return apperror.Internal(err)
		}
		out = m
		return nil
	})
	return out, err
}

// Delete removes the teacher; its classes become unassigned.
func (s *TeacherService) Delete(ctx context.Context, id uint) error {
	err := s.Repo.DeleteTeacher(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperror.NotFound("Teacher ID tidak ditemukan")
		}
		return apperror.Internal(err)
	}
	return nil
}

// RecomputeStudentCount rewrites the cached student_count of a teacher.
// Dipanggil di transaksi yang sama dengan write yang mengubah roster.
// teacherID nil → no-op.
func RecomputeStudentCount(ctx context.Context, tx repositories.Repository, teacherID *uint) error {
	if teacherID == nil {
		return nil
	}
	n, err := tx.CountStudentsOfTeacher(ctx, *teacherID)
	if err != nil {
		return errors.Wrapf(err, "recompute student count of teacher %d", *teacherID)
	}
	if err := tx.SetTeacherStudentCount(ctx, *teacherID, n); err != nil {
		if repositories.IsNotFound(err) {
			// guru sudah dihapus di transaksi ini
			return nil
		}
		return err
	}
	return nil
}
