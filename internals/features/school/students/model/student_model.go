// file: internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

type StudentModel struct {
	StudentID uint `gorm:"column:student_id;primaryKey;autoIncrement" json:"student_id"`

	StudentName string          `gorm:"column:student_name;type:varchar(120);not null;index:ix_students_name" json:"student_name"`
	StudentDOB  *datatypes.Date `gorm:"column:student_dob;type:date" json:"student_dob,omitempty"`

	// FK → classes(class_id), di-null-kan saat kelas dihapus
	StudentClassID *uint `gorm:"column:student_class_id;index:ix_students_class" json:"student_class_id,omitempty"`
	// FK → partners(partner_id): orang tua / wali yang ditagih
	StudentPartnerID *uint `gorm:"column:student_partner_id;index:ix_students_partner" json:"student_partner_id,omitempty"`

	// siswa nonaktif tidak ikut ditagih bulanan
	StudentIsActive bool    `gorm:"column:student_is_active;not null;index:ix_students_active" json:"student_is_active"`
	StudentNote     *string `gorm:"column:student_note;type:text" json:"student_note,omitempty"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;type:timestamptz;not null;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;type:timestamptz;not null;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

// DisplayName renders "Andi (Kelas 1A)" when the class name is known.
func (m StudentModel) DisplayName(className string) string {
	if m.StudentClassID != nil && className != "" {
		return m.StudentName + " (" + className + ")"
	}
	return m.StudentName
}

// DOBTime returns nil when dob is unset.
func (m StudentModel) DOBTime() *time.Time {
	if m.StudentDOB == nil {
		return nil
	}
	t := time.Time(*m.StudentDOB)
	return &t
}

// DOBString formats dob as YYYY-MM-DD, or "" when unset.
func (m StudentModel) DOBString() string {
	if t := m.DOBTime(); t != nil {
		return t.Format("2006-01-02")
	}
	return ""
}
