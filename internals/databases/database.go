package database

import (
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolmanagement_backend/internals/configs"
	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	invoiceModel "schoolmanagement_backend/internals/features/finance/invoices/model"
	productModel "schoolmanagement_backend/internals/features/finance/products/model"
	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	studentModel "schoolmanagement_backend/internals/features/school/students/model"
	teacherModel "schoolmanagement_backend/internals/features/school/teachers/model"
)

var DB *gorm.DB

// BuildDSN: URL lengkap + statement_timeout supaya query macet tidak menahan pool.
// Catatan: kalau pakai PgBouncer, arahkan host/port ke PgBouncer dan biarkan PreferSimpleProtocol=true.
func BuildDSN(cfg *configs.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   cfg.DBHost + ":" + cfg.DBPort,
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.DBSSLMode)
	q.Set("application_name", "schoolmanagement")
	q.Set("options", "-c statement_timeout=5000")
	u.RawQuery = q.Encode()
	return u.String()
}

func ConnectDB(cfg *configs.Config) (*gorm.DB, error) {
	log.Info("🔌 Koneksi ke PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  BuildDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gagal konek DB")
	}
	DB = db
	log.Info("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Warn("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Models lists every table owned by this service, in FK dependency order.
func Models() []interface{} {
	return []interface{}{
		&teacherModel.TeacherModel{},
		&classModel.ClassModel{},
		&partnerModel.PartnerModel{},
		&studentModel.StudentModel{},
		&productModel.ProductModel{},
		&invoiceModel.InvoiceModel{},
		&invoiceModel.InvoiceLineModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return EnsureConstraints(db)
}

// TuitionUniqueIndexSQL: satu invoice SPP per (student, period).
const TuitionUniqueIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS uniq_invoices_tuition_student_period
	ON invoices (invoice_student_id, invoice_billing_period)
	WHERE invoice_is_tuition = true AND invoice_student_id IS NOT NULL`

// EnsureConstraints creates the partial indexes AutoMigrate cannot express.
func EnsureConstraints(db *gorm.DB) error {
	if err := db.Exec(TuitionUniqueIndexSQL).Error; err != nil {
		return errors.Wrap(err, "create uniq_invoices_tuition_student_period")
	}
	return nil
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("close db")
		}
	}
}

// DescribeTarget is a password-free host/db label for startup logs.
func DescribeTarget(cfg *configs.Config) string {
	return fmt.Sprintf("%s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
}
