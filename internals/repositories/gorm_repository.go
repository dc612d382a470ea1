package repositories

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	invoiceModel "schoolmanagement_backend/internals/features/finance/invoices/model"
	productModel "schoolmanagement_backend/internals/features/finance/products/model"
	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	studentModel "schoolmanagement_backend/internals/features/school/students/model"
	teacherModel "schoolmanagement_backend/internals/features/school/teachers/model"
)

type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// translate maps gorm/driver errors onto ErrNotFound / ErrDuplicate.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.WithMessage(ErrDuplicate, err.Error())
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil &&
		(strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "unique constraint"))
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// =======================================================
// TEACHERS
// =======================================================

func (r *GormRepository) CreateTeacher(ctx context.Context, m *teacherModel.TeacherModel) error {
	return errors.Wrap(translate(r.db.WithContext(ctx).Create(m).Error), "create teacher")
}

func (r *GormRepository) SaveTeacher(ctx context.Context, m *teacherModel.TeacherModel) error {
	return errors.Wrapf(translate(r.db.WithContext(ctx).Save(m).Error), "save teacher %d", m.TeacherID)
}

func (r *GormRepository) GetTeacher(ctx context.Context, id uint) (*teacherModel.TeacherModel, error) {
	var m teacherModel.TeacherModel
	if err := r.db.WithContext(ctx).First(&m, "teacher_id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get teacher %d", id)
	}
	return &m, nil
}

func (r *GormRepository) ListTeachers(ctx context.Context, f TeacherFilter) ([]teacherModel.TeacherModel, error) {
	q := r.db.WithContext(ctx).Model(&teacherModel.TeacherModel{})
	if f.OnlyActive {
		q = q.Where("teacher_is_active = ?", true)
	}
	var list []teacherModel.TeacherModel
	if err := q.Order("teacher_name ASC, teacher_id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(translate(err), "list teachers")
	}
	return list, nil
}

func (r *GormRepository) FindTeacherByPhone(ctx context.Context, phone string, excludeID uint) (*teacherModel.TeacherModel, error) {
	q := r.db.WithContext(ctx).Where("teacher_phone = ?", phone)
	if excludeID != 0 {
		q = q.Where("teacher_id <> ?", excludeID)
	}
	var m teacherModel.TeacherModel
	if err := q.First(&m).Error; err != nil {
		return nil, errors.Wrap(translate(err), "find teacher by phone")
	}
	return &m, nil
}

func (r *GormRepository) DeleteTeacher(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&classModel.ClassModel{}).
			Where("class_teacher_id = ?", id).
			Update("class_teacher_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&teacherModel.TeacherModel{}, "teacher_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return errors.Wrapf(translate(err), "delete teacher %d", id)
}

func (r *GormRepository) CountStudentsOfTeacher(ctx context.Context, id uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Joins("JOIN classes ON classes.class_id = students.student_class_id").
		Where("classes.class_teacher_id = ?", id).
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrapf(translate(err), "count students of teacher %d", id)
	}
	return int(n), nil
}

func (r *GormRepository) SetTeacherStudentCount(ctx context.Context, id uint, count int) error {
	res := r.db.WithContext(ctx).Model(&teacherModel.TeacherModel{}).
		Where("teacher_id = ?", id).
		Update("teacher_student_count", count)
	if res.Error == nil && res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "teacher %d", id)
	}
	return errors.Wrapf(translate(res.Error), "set student count of teacher %d", id)
}

// =======================================================
// CLASSES
// =======================================================

func (r *GormRepository) CreateClass(ctx context.Context, m *classModel.ClassModel) error {
	return errors.Wrap(translate(r.db.WithContext(ctx).Create(m).Error), "create class")
}

func (r *GormRepository) SaveClass(ctx context.Context, m *classModel.ClassModel) error {
	return errors.Wrapf(translate(r.db.WithContext(ctx).Save(m).Error), "save class %d", m.ClassID)
}

func (r *GormRepository) GetClass(ctx context.Context, id uint) (*classModel.ClassModel, error) {
	var m classModel.ClassModel
	if err := r.db.WithContext(ctx).First(&m, "class_id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get class %d", id)
	}
	return &m, nil
}

func (r *GormRepository) ListClasses(ctx context.Context, f ClassFilter) ([]classModel.ClassModel, error) {
	q := r.db.WithContext(ctx).Model(&classModel.ClassModel{})
	if f.TeacherID != nil {
		q = q.Where("class_teacher_id = ?", *f.TeacherID)
	}
	if !f.IncludeInactive {
		q = q.Where("class_is_active = ?", true)
	}
	var list []classModel.ClassModel
	if err := q.Order("class_name ASC, class_id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(translate(err), "list classes")
	}
	return list, nil
}

func (r *GormRepository) DeleteClass(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_class_id = ?", id).
			Update("student_class_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&classModel.ClassModel{}, "class_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return errors.Wrapf(translate(err), "delete class %d", id)
}

func (r *GormRepository) CountStudentsInClass(ctx context.Context, id uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_class_id = ?", id).
		Count(&n).Error
	if err != nil {
		return 0, errors.Wrapf(translate(err), "count students in class %d", id)
	}
	return int(n), nil
}

// =======================================================
// STUDENTS
// =======================================================

func (r *GormRepository) CreateStudent(ctx context.Context, m *studentModel.StudentModel) error {
	return errors.Wrap(translate(r.db.WithContext(ctx).Create(m).Error), "create student")
}

func (r *GormRepository) SaveStudent(ctx context.Context, m *studentModel.StudentModel) error {
	return errors.Wrapf(translate(r.db.WithContext(ctx).Save(m).Error), "save student %d", m.StudentID)
}

func (r *GormRepository) GetStudent(ctx context.Context, id uint) (*studentModel.StudentModel, error) {
	var m studentModel.StudentModel
	if err := r.db.WithContext(ctx).First(&m, "student_id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get student %d", id)
	}
	return &m, nil
}

func (r *GormRepository) ListStudents(ctx context.Context, f StudentFilter) ([]studentModel.StudentModel, error) {
	q := r.db.WithContext(ctx).Model(&studentModel.StudentModel{})
	if f.TeacherID != nil {
		q = q.Joins("JOIN classes ON classes.class_id = students.student_class_id").
			Where("classes.class_teacher_id = ?", *f.TeacherID)
	}
	if f.ClassID != nil {
		q = q.Where("students.student_class_id = ?", *f.ClassID)
	}
	if !f.IncludeInactive {
		q = q.Where("students.student_is_active = ?", true)
	}
	var list []studentModel.StudentModel
	if err := q.Order("students.student_name ASC, students.student_id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(translate(err), "list students")
	}
	return list, nil
}

func (r *GormRepository) SetStudentsActive(ctx context.Context, ids []uint, active bool) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id IN ?", ids).
		Update("student_is_active", active).Error
	return errors.Wrap(translate(err), "set students active")
}

func (r *GormRepository) DeleteStudent(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&invoiceModel.InvoiceModel{}).
			Where("invoice_student_id = ?", id).
			Update("invoice_student_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&studentModel.StudentModel{}, "student_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return errors.Wrapf(translate(err), "delete student %d", id)
}

// =======================================================
// PARTNERS
// =======================================================

func (r *GormRepository) CreatePartner(ctx context.Context, m *partnerModel.PartnerModel) error {
	return errors.Wrap(translate(r.db.WithContext(ctx).Create(m).Error), "create partner")
}

func (r *GormRepository) GetPartner(ctx context.Context, id uint) (*partnerModel.PartnerModel, error) {
	var m partnerModel.PartnerModel
	if err := r.db.WithContext(ctx).First(&m, "partner_id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get partner %d", id)
	}
	return &m, nil
}

func (r *GormRepository) ListPartners(ctx context.Context) ([]partnerModel.PartnerModel, error) {
	var list []partnerModel.PartnerModel
	if err := r.db.WithContext(ctx).Order("partner_name ASC, partner_id ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(translate(err), "list partners")
	}
	return list, nil
}

// =======================================================
// PRODUCTS
// =======================================================

func (r *GormRepository) CreateProduct(ctx context.Context, m *productModel.ProductModel) error {
	return errors.Wrap(translate(r.db.WithContext(ctx).Create(m).Error), "create product")
}

func (r *GormRepository) SaveProduct(ctx context.Context, m *productModel.ProductModel) error {
	return errors.Wrapf(translate(r.db.WithContext(ctx).Save(m).Error), "save product %d", m.ProductID)
}

func (r *GormRepository) GetProduct(ctx context.Context, id uint) (*productModel.ProductModel, error) {
	var m productModel.ProductModel
	if err := r.db.WithContext(ctx).First(&m, "product_id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get product %d", id)
	}
	return &m, nil
}

func (r *GormRepository) FindProductByName(ctx context.Context, name string) (*productModel.ProductModel, error) {
	var m productModel.ProductModel
	if err := r.db.WithContext(ctx).Where("product_name = ?", name).First(&m).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "find product %q", name)
	}
	return &m, nil
}

func (r *GormRepository) ListProducts(ctx context.Context) ([]productModel.ProductModel, error) {
	var list []productModel.ProductModel
	if err := r.db.WithContext(ctx).Order("product_name ASC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(translate(err), "list products")
	}
	return list, nil
}

// =======================================================
// INVOICES
// =======================================================

func (r *GormRepository) CreateInvoice(ctx context.Context, m *invoiceModel.InvoiceModel) error {
	return errors.Wrap(translate(r.db.WithContext(ctx).Create(m).Error), "create invoice")
}

func (r *GormRepository) SaveInvoice(ctx context.Context, m *invoiceModel.InvoiceModel) error {
	err := r.db.WithContext(ctx).Omit("InvoiceLines").Save(m).Error
	return errors.Wrapf(translate(err), "save invoice %d", m.InvoiceID)
}

func (r *GormRepository) GetInvoice(ctx context.Context, id uint) (*invoiceModel.InvoiceModel, error) {
	var m invoiceModel.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("InvoiceLines").First(&m, "invoice_id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "get invoice %d", id)
	}
	return &m, nil
}

func (r *GormRepository) FindTuitionInvoice(ctx context.Context, studentID uint, period string) (*invoiceModel.InvoiceModel, error) {
	var m invoiceModel.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("invoice_student_id = ? AND invoice_billing_period = ? AND invoice_is_tuition = ?", studentID, period, true).
		First(&m).Error
	if err != nil {
		return nil, errors.Wrapf(translate(err), "find tuition invoice student=%d period=%s", studentID, period)
	}
	return &m, nil
}

func (r *GormRepository) FindInvoiceByPaymentOrder(ctx context.Context, orderID string) (*invoiceModel.InvoiceModel, error) {
	var m invoiceModel.InvoiceModel
	if err := r.db.WithContext(ctx).Where("invoice_payment_order_id = ?", orderID).First(&m).Error; err != nil {
		return nil, errors.Wrapf(translate(err), "find invoice by order %s", orderID)
	}
	return &m, nil
}

func (r *GormRepository) ListInvoices(ctx context.Context, f InvoiceFilter) ([]invoiceModel.InvoiceModel, error) {
	q := r.db.WithContext(ctx).Model(&invoiceModel.InvoiceModel{}).Preload("InvoiceLines")
	if f.StudentID != nil {
		q = q.Where("invoice_student_id = ?", *f.StudentID)
	}
	if f.BillingPeriod != nil {
		q = q.Where("invoice_billing_period = ?", *f.BillingPeriod)
	}
	if f.IsTuition != nil {
		q = q.Where("invoice_is_tuition = ?", *f.IsTuition)
	}
	var list []invoiceModel.InvoiceModel
	if err := q.Order("invoice_created_at DESC, invoice_id DESC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(translate(err), "list invoices")
	}
	return list, nil
}
