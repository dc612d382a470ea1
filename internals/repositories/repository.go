// Package repositories is the persistence boundary of the school backend.
//
// Services only talk to the Repository interface. Two implementations exist:
// GormRepository (PostgreSQL, production) and memory.Repository (tests and
// DB_DRIVER=memory local runs). Both enforce the same uniqueness rules and
// report conflicts as ErrDuplicate.
package repositories

import (
	"context"

	"github.com/pkg/errors"

	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	invoiceModel "schoolmanagement_backend/internals/features/finance/invoices/model"
	productModel "schoolmanagement_backend/internals/features/finance/products/model"
	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	studentModel "schoolmanagement_backend/internals/features/school/students/model"
	teacherModel "schoolmanagement_backend/internals/features/school/teachers/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key value violates unique constraint")
)

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

/* ===============================
   Filters
=================================*/

type TeacherFilter struct {
	OnlyActive bool
}

type ClassFilter struct {
	TeacherID       *uint
	IncludeInactive bool
}

// StudentFilter: default hanya siswa aktif, IncludeInactive untuk melihat semua.
type StudentFilter struct {
	ClassID         *uint
	TeacherID       *uint
	IncludeInactive bool
}

type InvoiceFilter struct {
	StudentID     *uint
	BillingPeriod *string
	IsTuition     *bool
}

/* ===============================
   Repositories
=================================*/

type TeacherRepository interface {
	CreateTeacher(ctx context.Context, m *teacherModel.TeacherModel) error
	SaveTeacher(ctx context.Context, m *teacherModel.TeacherModel) error
	GetTeacher(ctx context.Context, id uint) (*teacherModel.TeacherModel, error)
	ListTeachers(ctx context.Context, f TeacherFilter) ([]teacherModel.TeacherModel, error)
	// FindTeacherByPhone ignores excludeID (0 = tidak ada pengecualian).
	FindTeacherByPhone(ctx context.Context, phone string, excludeID uint) (*teacherModel.TeacherModel, error)
	// DeleteTeacher sets class_teacher_id = NULL on the teacher's classes first.
	DeleteTeacher(ctx context.Context, id uint) error
	CountStudentsOfTeacher(ctx context.Context, id uint) (int, error)
	SetTeacherStudentCount(ctx context.Context, id uint, count int) error
}

type ClassRepository interface {
	CreateClass(ctx context.Context, m *classModel.ClassModel) error
	SaveClass(ctx context.Context, m *classModel.ClassModel) error
	GetClass(ctx context.Context, id uint) (*classModel.ClassModel, error)
	ListClasses(ctx context.Context, f ClassFilter) ([]classModel.ClassModel, error)
	// DeleteClass sets student_class_id = NULL on the class's students first.
	DeleteClass(ctx context.Context, id uint) error
	CountStudentsInClass(ctx context.Context, id uint) (int, error)
}

type StudentRepository interface {
	CreateStudent(ctx context.Context, m *studentModel.StudentModel) error
	SaveStudent(ctx context.Context, m *studentModel.StudentModel) error
	GetStudent(ctx context.Context, id uint) (*studentModel.StudentModel, error)
	ListStudents(ctx context.Context, f StudentFilter) ([]studentModel.StudentModel, error)
	SetStudentsActive(ctx context.Context, ids []uint, active bool) error
	DeleteStudent(ctx context.Context, id uint) error
}

type PartnerRepository interface {
	CreatePartner(ctx context.Context, m *partnerModel.PartnerModel) error
	GetPartner(ctx context.Context, id uint) (*partnerModel.PartnerModel, error)
	ListPartners(ctx context.Context) ([]partnerModel.PartnerModel, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, m *productModel.ProductModel) error
	SaveProduct(ctx context.Context, m *productModel.ProductModel) error
	GetProduct(ctx context.Context, id uint) (*productModel.ProductModel, error)
	FindProductByName(ctx context.Context, name string) (*productModel.ProductModel, error)
	ListProducts(ctx context.Context) ([]productModel.ProductModel, error)
}

type InvoiceRepository interface {
	// CreateInvoice inserts the header and its lines.
	CreateInvoice(ctx context.Context, m *invoiceModel.InvoiceModel) error
	// SaveInvoice updates header columns only.
	SaveInvoice(ctx context.Context, m *invoiceModel.InvoiceModel) error
	GetInvoice(ctx context.Context, id uint) (*invoiceModel.InvoiceModel, error)
	FindTuitionInvoice(ctx context.Context, studentID uint, period string) (*invoiceModel.InvoiceModel, error)
	FindInvoiceByPaymentOrder(ctx context.Context, orderID string) (*invoiceModel.InvoiceModel, error)
	ListInvoices(ctx context.Context, f InvoiceFilter) ([]invoiceModel.InvoiceModel, error)
}

type Repository interface {
	TeacherRepository
	ClassRepository
	StudentRepository
	PartnerRepository
	ProductRepository
	InvoiceRepository

	// Transaction runs fn atomically; any error rolls every write back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error
}
