package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
)

// ToggleResult is rendered by the caller as a notification.
type ToggleResult struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Sticky   bool   `json:"sticky"`
	Active   bool   `json:"active"`
	Affected int    `json:"affected"`
}

type RosterService struct {
	Repo repositories.Repository
}

func NewRosterService(repo repositories.Repository) *RosterService {
	return &RosterService{Repo: repo}
}

// ToggleStudents flips every student of the teacher's classes.
// Semua aktif → dinonaktifkan; selain itu → semua diaktifkan.
func (s *RosterService) ToggleStudents(ctx context.Context, teacherID uint) (*ToggleResult, error) {
	var out *ToggleResult
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		teacher, err := tx.GetTeacher(ctx, teacherID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperror.NotFound("Teacher ID tidak ditemukan")
			}
			return apperror.Internal(err)
		}

		// termasuk siswa nonaktif
		students, err := tx.ListStudents(ctx, repositories.StudentFilter{
			TeacherID:       &teacherID,
			IncludeInactive: true,
		})
		if err != nil {
			return apperror.Internal(err)
		}
		if len(students) == 0 {
			return apperror.NoRoster("Tidak ada siswa yang terdaftar di kelas %s.", teacher.TeacherName)
		}

		allActive := true
		ids := make([]uint, 0, len(students))
		for _, st := range students {
			ids = append(ids, st.StudentID)
			if !st.StudentIsActive {
				allActive = false
			}
		}

		target := !allActive
		if err := tx.SetStudentsActive(ctx, ids, target); err != nil {
			return apperror.Internal(err)
		}

		if allActive {
			out = &ToggleResult{
				Title:   "Siswa Dinonaktifkan",
				Message: "Semua siswa yang diajar oleh " + teacher.TeacherName + " berhasil di-nonaktifkan.",
				Type:    SeverityWarning,
			}
		} else {
			out = &ToggleResult{
				Title:   "Siswa Diaktifkan",
				Message: "Semua siswa yang diajar oleh " + teacher.TeacherName + " berhasil diaktifkan kembali.",
				Type:    SeveritySuccess,
			}
		}
		out.Active = target
		out.Affected = len(ids)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"teacher_id": teacherID,
		"active":     out.Active,
		"affected":   out.Affected,
	}).Info("roster toggled")
	return out, nil
}
