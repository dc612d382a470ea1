// file: internals/features/school/students/service/student_service.go
package service

import (
	"context"
	"strings"
	"time"

	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	classService "schoolmanagement_backend/internals/features/school/classes/service"
	"schoolmanagement_backend/internals/features/school/students/model"
	teacherService "schoolmanagement_backend/internals/features/school/teachers/service"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/helpers/dbtime"
	"schoolmanagement_backend/internals/repositories"
)

type StudentService struct {
	Repo     repositories.Repository
	Capacity classService.CapacityPolicy
	Loc      *time.Location
	Now      dbtime.Clock
}

func NewStudentService(repo repositories.Repository, capacity classService.CapacityPolicy, loc *time.Location) *StudentService {
	if capacity == nil {
		capacity = classService.AdvisoryCapacity{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StudentService{Repo: repo, Capacity: capacity, Loc: loc, Now: dbtime.SystemClock}
}

// StudentView adalah siswa + nama kelas & partner untuk response.
type StudentView struct {
	Student     model.StudentModel
	ClassName   string
	PartnerName string
}

// CreateStudentInput: semua field sudah di-parse oleh controller.
type CreateStudentInput struct {
	Name      string
	DOB       *time.Time
	ClassID   *uint
	PartnerID *uint
	Note      *string
}

func (s *StudentService) checkDOB(m *model.StudentModel) error {
	if t := m.DOBTime(); t != nil && dbtime.IsAfterDay(*t, s.Now(), s.Loc) {
		return apperror.Validation("Tanggal lahir tidak boleh di masa depan.")
	}
	return nil
}

func getClass(ctx context.Context, tx repositories.Repository, id uint) (*classModel.ClassModel, error) {
	c, err := tx.GetClass(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Class ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return c, nil
}

func getPartner(ctx context.Context, tx repositories.Repository, id uint) (*partnerModel.PartnerModel, error) {
	p, err := tx.GetPartner(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Partner ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return p, nil
}

// Create: urutan cek = kelas ada → partner ada → tanggal lahir → kapasitas.
func (s *StudentService) Create(ctx context.Context, in CreateStudentInput) (*StudentView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("Field 'name' wajib diisi!")
	}

	var out *StudentView
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		view := &StudentView{}

		var class *classModel.ClassModel
		if in.ClassID != nil {
			c, err := getClass(ctx, tx, *in.ClassID)
			if err != nil {
				return err
			}
			class = c
			view.ClassName = c.ClassName
		}
		if in.PartnerID != nil {
			p, err := getPartner(ctx, tx, *in.PartnerID)
			if err != nil {
				return err
			}
			view.PartnerName = p.PartnerName
		}

		m := model.StudentModel{
			StudentName:      name,
			StudentClassID:   in.ClassID,
			StudentPartnerID: in.PartnerID,
			StudentIsActive:  true,
			StudentNote:      in.Note,
		}
		if in.DOB != nil {
			d := dbtime.ToDate(*in.DOB)
			m.StudentDOB = &d
		}
		if err := s.checkDOB(&m); err != nil {
			return err
		}
		if class != nil {
			if err := s.Capacity.CheckAssign(ctx, tx, class); err != nil {
				return err
			}
		}

		if err := tx.CreateStudent(ctx, &m); err != nil {
			return apperror.Internal(err)
		}
		if class != nil {
			if err := teacherService.RecomputeStudentCount(ctx, tx, class.ClassTeacherID); err != nil {
				return apperror.Internal(err)
			}
		}
		view.Student = m
		out = view
		return nil
	})
	return out, err
}

func (s *StudentService) Get(ctx context.Context, id uint) (*model.StudentModel, error) {
	m, err := s.Repo.GetStudent(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Student ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	return m, nil
}

func (s *StudentService) List(ctx context.Context, f repositories.StudentFilter) ([]model.StudentModel, error) {
	list, err := s.Repo.ListStudents(ctx, f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// ClassName returns "" for a student without a class.
func (s *StudentService) ClassName(ctx context.Context, m *model.StudentModel) string {
	if m == nil || m.StudentClassID == nil {
		return ""
	}
	c, err := s.Repo.GetClass(ctx, *m.StudentClassID)
	if err != nil {
		return ""
	}
	return c.ClassName
}

// Update applies patch; pindah kelas menghitung ulang count guru lama & baru.
func (s *StudentService) Update(ctx context.Context, id uint, patch func(m *model.StudentModel)) (*model.StudentModel, error) {
	var out *model.StudentModel
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		m, err := tx.GetStudent(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Student ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
		oldClassID := m.StudentClassID
		patch(m)
		m.StudentID = id
		m.StudentName = strings.TrimSpace(m.StudentName)
		if m.StudentName == "" {
			return apperror.Validation("Field 'name' wajib diisi!")
		}

		classChanged := !sameID(oldClassID, m.StudentClassID)
		var oldTeacher, newTeacher *uint
		if classChanged {
			if oldClassID != nil {
				if c, err := tx.GetClass(ctx, *oldClassID); err == nil {
					oldTeacher = c.ClassTeacherID
				}
			}
			if m.StudentClassID != nil {
				c, err := getClass(ctx, tx, *m.StudentClassID)
				if err != nil {
					return err
				}
				if err := s.Capacity.CheckAssign(ctx, tx, c); err != nil {
					return err
				}
				newTeacher = c.ClassTeacherID
			}
		}
		if m.StudentPartnerID != nil {
			if _, err := getPartner(ctx, tx, *m.StudentPartnerID); err != nil {
				return err
			}
		}
		if err := s.checkDOB(m); err != nil {
			return err
		}

		if err := tx.SaveStudent(ctx, m); err != nil {
			return apperror.Internal(err)
		}
		if classChanged {
			if err := teacherService.RecomputeStudentCount(ctx, tx, oldTeacher); err != nil {
				return apperror.Internal(err)
			}
			if !sameID(oldTeacher, newTeacher) {
				if err := teacherService.RecomputeStudentCount(ctx, tx, newTeacher); err != nil {
					return apperror.Internal(err)
				}
			}
		}
		out = m
		return nil
	})
	return out, err
}

func (s *StudentService) Delete(ctx context.Context, id uint) error {
	return s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		m, err := tx.GetStudent(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Student ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}
		var teacherID *uint
		if m.StudentClassID != nil {
			if c, err := tx.GetClass(ctx, *m.StudentClassID); err == nil {
				teacherID = c.ClassTeacherID
			}
		}
		if err := tx.DeleteStudent(ctx, id); err != nil {
			return apperror.Internal(err)
		}
		if err := teacherService.RecomputeStudentCount(ctx, tx, teacherID); err != nil {
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
