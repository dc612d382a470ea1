// file: internals/features/contacts/partners/model/partner_model.go
package model

import "time"

// PartnerModel is the billing party (parent/guardian) of a student.
type PartnerModel struct {
	PartnerID uint `gorm:"column:partner_id;primaryKey;autoIncrement" json:"partner_id"`

	PartnerName  string  `gorm:"column:partner_name;type:varchar(120);not null;index:ix_partners_name" json:"partner_name"`
	PartnerEmail *string `gorm:"column:partner_email;type:varchar(120)" json:"partner_email,omitempty"`
	PartnerPhone *string `gorm:"column:partner_phone;type:varchar(30)" json:"partner_phone,omitempty"`

	PartnerIsActive bool `gorm:"column:partner_is_active;not null" json:"partner_is_active"`

	PartnerCreatedAt time.Time `gorm:"column:partner_created_at;type:timestamptz;not null;autoCreateTime" json:"partner_created_at"`
	PartnerUpdatedAt time.Time `gorm:"column:partner_updated_at;type:timestamptz;not null;autoUpdateTime" json:"partner_updated_at"`
}

func (PartnerModel) TableName() string { return "partners" }
