// file: internals/features/school/teachers/model/teacher_model.go
package model

import (
	"strings"
	"time"
)

type TeacherModel struct {
	TeacherID uint `gorm:"column:teacher_id;primaryKey;autoIncrement" json:"teacher_id"`

	TeacherName    string  `gorm:"column:teacher_name;type:varchar(120);not null;index:ix_teachers_name" json:"teacher_name"`
	TeacherAddress *string `gorm:"column:teacher_address;type:text" json:"teacher_address,omitempty"`
	// unik global (aktif maupun nonaktif)
	TeacherPhone string  `gorm:"column:teacher_phone;type:varchar(30);not null;uniqueIndex:uniq_teachers_phone" json:"teacher_phone"`
	TeacherEmail *string `gorm:"column:teacher_email;type:varchar(120)" json:"teacher_email,omitempty"`

	TeacherIsActive bool    `gorm:"column:teacher_is_active;not null" json:"teacher_is_active"`
	TeacherNote     *string `gorm:"column:teacher_note;type:text" json:"teacher_note,omitempty"`

	// derived: total siswa di semua kelas guru ini, dihitung ulang oleh service
	TeacherStudentCount int `gorm:"column:teacher_student_count;not null" json:"teacher_student_count"`

	TeacherCreatedAt time.Time `gorm:"column:teacher_created_at;type:timestamptz;not null;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time `gorm:"column:teacher_updated_at;type:timestamptz;not null;autoUpdateTime" json:"teacher_updated_at"`
}

func (TeacherModel) TableName() string { return "teachers" }

// DisplayName renders "Budi - 08123456789", or just the name without a phone.
func (m TeacherModel) DisplayName() string {
	if strings.TrimSpace(m.TeacherPhone) != "" {
		return m.TeacherName + " - " + m.TeacherPhone
	}
	return m.TeacherName
}
