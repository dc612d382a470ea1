// file: internals/features/finance/products/model/product_model.go
package model

import "time"

// ProductModel is a priced catalog entry used as an invoice line template.
type ProductModel struct {
	ProductID uint `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`

	ProductName string `gorm:"column:product_name;type:varchar(120);not null;uniqueIndex:uniq_products_name" json:"product_name"`
	// harga dalam rupiah
	ProductListPrice int64 `gorm:"column:product_list_price;not null;check:product_list_price>=0" json:"product_list_price"`
	ProductIsActive  bool  `gorm:"column:product_is_active;not null" json:"product_is_active"`

	ProductCreatedAt time.Time `gorm:"column:product_created_at;type:timestamptz;not null;autoCreateTime" json:"product_created_at"`
	ProductUpdatedAt time.Time `gorm:"column:product_updated_at;type:timestamptz;not null;autoUpdateTime" json:"product_updated_at"`
}

func (ProductModel) TableName() string { return "products" }
