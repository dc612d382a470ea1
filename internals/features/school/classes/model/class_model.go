// file: internals/features/school/classes/model/class_model.go
package model

import (
	"time"
)

type ClassModel struct {
	ClassID uint `gorm:"column:class_id;primaryKey;autoIncrement" json:"class_id"`

	ClassName string  `gorm:"column:class_name;type:varchar(120);not null;index:ix_classes_name" json:"class_name"`
	ClassCode *string `gorm:"column:class_code;type:varchar(40)" json:"class_code,omitempty"`

	// FK → teachers(teacher_id), di-null-kan saat guru dihapus
	ClassTeacherID *uint `gorm:"column:class_teacher_id;index:ix_classes_teacher" json:"class_teacher_id,omitempty"`

	// kapasitas bersifat informatif
	ClassCapacity int     `gorm:"column:class_capacity;not null;default:0" json:"class_capacity"`
	ClassSchedule *string `gorm:"column:class_schedule;type:text" json:"class_schedule,omitempty"`
	ClassIsActive bool    `gorm:"column:class_is_active;not null" json:"class_is_active"`
	ClassNote     *string `gorm:"column:class_note;type:text" json:"class_note,omitempty"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;type:timestamptz;not null;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;type:timestamptz;not null;autoUpdateTime" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

// DisplayName renders "Kelas 1A (Budi)" when a teacher name is known.
func (m ClassModel) DisplayName(teacherName string) string {
	if m.ClassTeacherID != nil && teacherName != "" {
		return m.ClassName + " (" + teacherName + ")"
	}
	return m.ClassName
}
