// Package memory is an in-process implementation of repositories.Repository.
// Dipakai untuk unit test dan untuk DB_DRIVER=memory saat development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	invoiceModel "schoolmanagement_backend/internals/features/finance/invoices/model"
	productModel "schoolmanagement_backend/internals/features/finance/products/model"
	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	studentModel "schoolmanagement_backend/internals/features/school/students/model"
	teacherModel "schoolmanagement_backend/internals/features/school/teachers/model"
	"schoolmanagement_backend/internals/repositories"
)

type tables struct {
	teachers map[uint]teacherModel.TeacherModel
	classes  map[uint]classModel.ClassModel
	students map[uint]studentModel.StudentModel
	partners map[uint]partnerModel.PartnerModel
	products map[uint]productModel.ProductModel
	invoices map[uint]invoiceModel.InvoiceModel

	seq map[string]uint
}

func newTables() *tables {
	return &tables{
		teachers: make(map[uint]teacherModel.TeacherModel),
		classes:  make(map[uint]classModel.ClassModel),
		students: make(map[uint]studentModel.StudentModel),
		partners: make(map[uint]partnerModel.PartnerModel),
		products: make(map[uint]productModel.ProductModel),
		invoices: make(map[uint]invoiceModel.InvoiceModel),
		seq:      make(map[string]uint),
	}
}

func (t *tables) next(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.teachers {
		c.teachers[k] = v
	}
	for k, v := range t.classes {
		c.classes[k] = v
	}
	for k, v := range t.students {
		c.students[k] = v
	}
	for k, v := range t.partners {
		c.partners[k] = v
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

type store struct {
	mu   sync.Mutex
	data *tables
}

// Repository keeps every table in maps guarded by one mutex.
// A transaction holds the mutex for its whole duration and restores a
// snapshot when fn returns an error.
type Repository struct {
	st   *store
	inTx bool
	now  func() time.Time
}

var _ repositories.Repository = (*Repository)(nil)

func New() *Repository {
	return &Repository{st: &store{data: newTables()}, now: time.Now}
}

func (r *Repository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.st.mu.Lock()
	return r.st.mu.Unlock
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	if r.inTx {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	snapshot := r.st.data.clone()
	if err := fn(&Repository{st: r.st, inTx: true, now: r.now}); err != nil {
		r.st.data = snapshot
		return err
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error { return ctx.Err() }

func notFound(what string, id interface{}) error {
	return errors.Wrapf(repositories.ErrNotFound, "%s %v", what, id)
}

func duplicate(format string, args ...interface{}) error {
	return errors.Wrapf(repositories.ErrDuplicate, format, args...)
}

// =======================================================
// TEACHERS
// =======================================================

func (r *Repository) phoneTaken(phone string, exclude uint) bool {
	for id, t := range r.st.data.teachers {
		if id != exclude && t.TeacherPhone == phone {
			return true
		}
	}
	return false
}

func (r *Repository) CreateTeacher(_ context.Context, m *teacherModel.TeacherModel) error {
	defer r.lock()()
	if r.phoneTaken(m.TeacherPhone, 0) {
		return duplicate("uniq_teachers_phone (%s)", m.TeacherPhone)
	}
	now := r.now()
	m.TeacherID = r.st.data.next("teachers")
	m.TeacherCreatedAt, m.TeacherUpdatedAt = now, now
	r.st.data.teachers[m.TeacherID] = *m
	return nil
}

func (r *Repository) SaveTeacher(_ context.Context, m *teacherModel.TeacherModel) error {
	defer r.lock()()
	if _, ok := r.st.data.teachers[m.TeacherID]; !ok {
		return notFound("teacher", m.TeacherID)
	}
	if r.phoneTaken(m.TeacherPhone, m.TeacherID) {
		return duplicate("uniq_teachers_phone (%s)", m.TeacherPhone)
	}
	m.TeacherUpdatedAt = r.now()
	r.st.data.teachers[m.TeacherID] = *m
	return nil
}

func (r *Repository) GetTeacher(_ context.Context, id uint) (*teacherModel.TeacherModel, error) {
	defer r.lock()()
	t, ok := r.st.data.teachers[id]
	if !ok {
		return nil, notFound("teacher", id)
	}
	return &t, nil
}

func (r *Repository) ListTeachers(_ context.Context, f repositories.TeacherFilter) ([]teacherModel.TeacherModel, error) {
	defer r.lock()()
	out := make([]teacherModel.TeacherModel, 0, len(r.st.data.teachers))
	for _, t := range r.st.data.teachers {
		if f.OnlyActive && !t.TeacherIsActive {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeacherName != out[j].TeacherName {
			return out[i].TeacherName < out[j].TeacherName
		}
		return out[i].TeacherID < out[j].TeacherID
	})
	return out, nil
}

func (r *Repository) FindTeacherByPhone(_ context.Context, phone string, excludeID uint) (*teacherModel.TeacherModel, error) {
	defer r.lock()()
	var found *teacherModel.TeacherModel
	for id, t := range r.st.data.teachers {
		if id == excludeID || t.TeacherPhone != phone {
			continue
		}
		if found == nil || t.TeacherID < found.TeacherID {
			t := t
			found = &t
		}
	}
	if found == nil {
		return nil, notFound("teacher with phone", phone)
	}
	return found, nil
}

func (r *Repository) DeleteTeacher(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.st.data.teachers[id]; !ok {
		return notFound("teacher", id)
	}
	for cid, c := range r.st.data.classes {
		if c.ClassTeacherID != nil && *c.ClassTeacherID == id {
			c.ClassTeacherID = nil
			r.st.data.classes[cid] = c
		}
	}
	delete(r.st.data.teachers, id)
	return nil
}

func (r *Repository) CountStudentsOfTeacher(_ context.Context, id uint) (int, error) {
	defer r.lock()()
	n := 0
	for _, s := range r.st.data.students {
		if r.classBelongsTo(s.StudentClassID, id) {
			n++
		}
	}
	return n, nil
}

func (r *Repository) classBelongsTo(classID *uint, teacherID uint) bool {
	if classID == nil {
		return false
	}
	c, ok := r.st.data.classes[*classID]
	return ok && c.ClassTeacherID != nil && *c.ClassTeacherID == teacherID
}

func (r *Repository) SetTeacherStudentCount(_ context.Context, id uint, count int) error {
	defer r.lock()()
	t, ok := r.st.data.teachers[id]
	if !ok {
		return notFound("teacher", id)
	}
	t.TeacherStudentCount = count
	r.st.data.teachers[id] = t
	return nil
}

// =======================================================
// CLASSES
// =======================================================

func (r *Repository) CreateClass(_ context.Context, m *classModel.ClassModel) error {
	defer r.lock()()
	now := r.now()
	m.ClassID = r.st.data.next("classes")
	m.ClassCreatedAt, m.ClassUpdatedAt = now, now
	r.st.data.classes[m.ClassID] = *m
	return nil
}

func (r *Repository) SaveClass(_ context.Context, m *classModel.ClassModel) error {
	defer r.lock()()
	if _, ok := r.st.data.classes[m.ClassID]; !ok {
		return notFound("class", m.ClassID)
	}
	m.ClassUpdatedAt = r.now()
	r.st.data.classes[m.ClassID] = *m
	return nil
}

func (r *Repository) GetClass(_ context.Context, id uint) (*classModel.ClassModel, error) {
	defer r.lock()()
	c, ok := r.st.data.classes[id]
	if !ok {
		return nil, notFound("class", id)
	}
	return &c, nil
}

func (r *Repository) ListClasses(_ context.Context, f repositories.ClassFilter) ([]classModel.ClassModel, error) {
	defer r.lock()()
	out := make([]classModel.ClassModel, 0)
	for _, c := range r.st.data.classes {
		if f.TeacherID != nil && (c.ClassTeacherID == nil || *c.ClassTeacherID != *f.TeacherID) {
			continue
		}
		if !f.IncludeInactive && !c.ClassIsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassName != out[j].ClassName {
			return out[i].ClassName < out[j].ClassName
		}
		return out[i].ClassID < out[j].ClassID
	})
	return out, nil
}

func (r *Repository) DeleteClass(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.st.data.classes[id]; !ok {
		return notFound("class", id)
	}
	for sid, s := range r.st.data.students {
		if s.StudentClassID != nil && *s.StudentClassID == id {
			s.StudentClassID = nil
			r.st.data.students[sid] = s
		}
	}
	delete(r.st.data.classes, id)
	return nil
}

func (r *Repository) CountStudentsInClass(_ context.Context, id uint) (int, error) {
	defer r.lock()()
	n := 0
	for _, s := range r.st.data.students {
		if s.StudentClassID != nil && *s.StudentClassID == id {
			n++
		}
	}
	return n, nil
}

// =======================================================
// STUDENTS
// =======================================================

func (r *Repository) CreateStudent(_ context.Context, m *studentModel.StudentModel) error {
	defer r.lock()()
	now := r.now()
	m.StudentID = r.st.data.next("students")
	m.StudentCreatedAt, m.StudentUpdatedAt = now, now
	r.st.data.students[m.StudentID] = *m
	return nil
}

func (r *Repository) SaveStudent(_ context.Context, m *studentModel.StudentModel) error {
	defer r.lock()()
	if _, ok := r.st.data.students[m.StudentID]; !ok {
		return notFound("student", m.StudentID)
	}
	m.StudentUpdatedAt = r.now()
	r.st.data.students[m.StudentID] = *m
	return nil
}

func (r *Repository) GetStudent(_ context.Context, id uint) (*studentModel.StudentModel, error) {
	defer r.lock()()
	s, ok := r.st.data.students[id]
	if !ok {
		return nil, notFound("student", id)
	}
	return &s, nil
}

func (r *Repository) ListStudents(_ context.Context, f repositories.StudentFilter) ([]studentModel.StudentModel, error) {
	defer r.lock()()
	out := make([]studentModel.StudentModel, 0)
	for _, s := range r.st.data.students {
		if f.ClassID != nil && (s.StudentClassID == nil || *s.StudentClassID != *f.ClassID) {
			continue
		}
		if f.TeacherID != nil && !r.classBelongsTo(s.StudentClassID, *f.TeacherID) {
			continue
		}
		if !f.IncludeInactive && !s.StudentIsActive {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentName != out[j].StudentName {
			return out[i].StudentName < out[j].StudentName
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out, nil
}

func (r *Repository) SetStudentsActive(_ context.Context, ids []uint, active bool) error {
	defer r.lock()()
	now := r.now()
	for _, id := range ids {
		s, ok := r.st.data.students[id]
		if !ok {
			continue
		}
		s.StudentIsActive = active
		s.StudentUpdatedAt = now
		r.st.data.students[id] = s
	}
	return nil
}

func (r *Repository) DeleteStudent(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.st.data.students[id]; !ok {
		return notFound("student", id)
	}
	for iid, inv := range r.st.data.invoices {
		if inv.InvoiceStudentID != nil && *inv.InvoiceStudentID == id {
			inv.InvoiceStudentID = nil
			r.st.data.invoices[iid] = inv
		}
	}
	delete(r.st.data.students, id)
	return nil
}

// =======================================================
// PARTNERS
// =======================================================

func (r *Repository) CreatePartner(_ context.Context, m *partnerModel.PartnerModel) error {
	defer r.lock()()
	now := r.now()
	m.PartnerID = r.st.data.next("partners")
	m.PartnerCreatedAt, m.PartnerUpdatedAt = now, now
	r.st.data.partners[m.PartnerID] = *m
	return nil
}

func (r *Repository) GetPartner(_ context.Context, id uint) (*partnerModel.PartnerModel, error) {
	defer r.lock()()
	p, ok := r.st.data.partners[id]
	if !ok {
		return nil, notFound("partner", id)
	}
	return &p, nil
}

func (r *Repository) ListPartners(_ context.Context) ([]partnerModel.PartnerModel, error) {
	defer r.lock()()
	out := make([]partnerModel.PartnerModel, 0, len(r.st.data.partners))
	for _, p := range r.st.data.partners {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PartnerName != out[j].PartnerName {
			return out[i].PartnerName < out[j].PartnerName
		}
		return out[i].PartnerID < out[j].PartnerID
	})
	return out, nil
}

// =======================================================
// PRODUCTS
// =======================================================

func (r *Repository) productNameTaken(name string, exclude uint) bool {
	for id, p := range r.st.data.products {
		if id != exclude && p.ProductName == name {
			return true
		}
	}
	return false
}

func (r *Repository) CreateProduct(_ context.Context, m *productModel.ProductModel) error {
	defer r.lock()()
	if r.productNameTaken(m.ProductName, 0) {
		return duplicate("uniq_products_name (%s)", m.ProductName)
	}
	now := r.now()
	m.ProductID = r.st.data.next("products")
	m.ProductCreatedAt, m.ProductUpdatedAt = now, now
	r.st.data.products[m.ProductID] = *m
	return nil
}

func (r *Repository) SaveProduct(_ context.Context, m *productModel.ProductModel) error {
	defer r.lock()()
	if _, ok := r.st.data.products[m.ProductID]; !ok {
		return notFound("product", m.ProductID)
	}
	if r.productNameTaken(m.ProductName, m.ProductID) {
		return duplicate("uniq_products_name (%s)", m.ProductName)
	}
	m.ProductUpdatedAt = r.now()
	r.st.data.products[m.ProductID] = *m
	return nil
}

func (r *Repository) GetProduct(_ context.Context, id uint) (*productModel.ProductModel, error) {
	defer r.lock()()
	p, ok := r.st.data.products[id]
	if !ok {
		return nil, notFound("product", id)
	}
	return &p, nil
}

func (r *Repository) FindProductByName(_ context.Context, name string) (*productModel.ProductModel, error) {
	defer r.lock()()
	for _, p := range r.st.data.products {
		if p.ProductName == name {
			p := p
			return &p, nil
		}
	}
	return nil, notFound("product", name)
}

func (r *Repository) ListProducts(_ context.Context) ([]productModel.ProductModel, error) {
	defer r.lock()()
	out := make([]productModel.ProductModel, 0, len(r.st.data.products))
	for _, p := range r.st.data.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

// =======================================================
// INVOICES
// =======================================================

func copyInvoice(m invoiceModel.InvoiceModel) invoiceModel.InvoiceModel {
	if m.InvoiceLines != nil {
		lines := make([]invoiceModel.InvoiceLineModel, len(m.InvoiceLines))
		copy(lines, m.InvoiceLines)
		m.InvoiceLines = lines
	}
	return m
}

func sameTuitionKey(a, b invoiceModel.InvoiceModel) bool {
	return a.InvoiceIsTuition && b.InvoiceIsTuition &&
		a.InvoiceStudentID != nil && b.InvoiceStudentID != nil &&
		a.InvoiceBillingPeriod != nil && b.InvoiceBillingPeriod != nil &&
		*a.InvoiceStudentID == *b.InvoiceStudentID &&
		*a.InvoiceBillingPeriod == *b.InvoiceBillingPeriod
}

func (r *Repository) checkInvoiceUnique(m invoiceModel.InvoiceModel) error {
	for id, inv := range r.st.data.invoices {
		if id == m.InvoiceID {
			continue
		}
		if inv.InvoiceNumber == m.InvoiceNumber {
			return duplicate("uniq_invoices_number (%s)", m.InvoiceNumber)
		}
		if sameTuitionKey(inv, m) {
			return duplicate("uniq_invoices_tuition_student_period (%d, %s)",
				*m.InvoiceStudentID, *m.InvoiceBillingPeriod)
		}
	}
	return nil
}

func (r *Repository) CreateInvoice(_ context.Context, m *invoiceModel.InvoiceModel) error {
	defer r.lock()()
	if err := r.checkInvoiceUnique(*m); err != nil {
		return err
	}
	now := r.now()
	m.InvoiceID = r.st.data.next("invoices")
	m.InvoiceCreatedAt, m.InvoiceUpdatedAt = now, now
	for i := range m.InvoiceLines {
		m.InvoiceLines[i].InvoiceLineID = r.st.data.next("invoice_lines")
		m.InvoiceLines[i].InvoiceLineInvoiceID = m.InvoiceID
	}
	r.st.data.invoices[m.InvoiceID] = copyInvoice(*m)
	return nil
}

func (r *Repository) SaveInvoice(_ context.Context, m *invoiceModel.InvoiceModel) error {
	defer r.lock()()
	cur, ok := r.st.data.invoices[m.InvoiceID]
	if !ok {
		return notFound("invoice", m.InvoiceID)
	}
	if err := r.checkInvoiceUnique(*m); err != nil {
		return err
	}
	m.InvoiceUpdatedAt = r.now()
	next := copyInvoice(*m)
	next.InvoiceLines = cur.InvoiceLines
	r.st.data.invoices[m.InvoiceID] = next
	return nil
}

func (r *Repository) GetInvoice(_ context.Context, id uint) (*invoiceModel.InvoiceModel, error) {
	defer r.lock()()
	inv, ok := r.st.data.invoices[id]
	if !ok {
		return nil, notFound("invoice", id)
	}
	inv = copyInvoice(inv)
	return &inv, nil
}

func (r *Repository) FindTuitionInvoice(_ context.Context, studentID uint, period string) (*invoiceModel.InvoiceModel, error) {
	defer r.lock()()
	key := invoiceModel.InvoiceModel{InvoiceIsTuition: true, InvoiceStudentID: &studentID, InvoiceBillingPeriod: &period}
	for _, inv := range r.st.data.invoices {
		if sameTuitionKey(inv, key) {
			inv = copyInvoice(inv)
			return &inv, nil
		}
	}
	return nil, notFound("tuition invoice", period)
}

func (r *Repository) FindInvoiceByPaymentOrder(_ context.Context, orderID string) (*invoiceModel.InvoiceModel, error) {
	defer r.lock()()
	for _, inv := range r.st.data.invoices {
		if inv.InvoicePaymentOrderID != nil && *inv.InvoicePaymentOrderID == orderID {
			inv = copyInvoice(inv)
			return &inv, nil
		}
	}
	return nil, notFound("invoice with order", orderID)
}

func (r *Repository) ListInvoices(_ context.Context, f repositories.InvoiceFilter) ([]invoiceModel.InvoiceModel, error) {
	defer r.lock()()
	out := make([]invoiceModel.InvoiceModel, 0)
	for _, inv := range r.st.data.invoices {
		if f.StudentID != nil && (inv.InvoiceStudentID == nil || *inv.InvoiceStudentID != *f.StudentID) {
			continue
		}
		if f.BillingPeriod != nil && (inv.InvoiceBillingPeriod == nil || *inv.InvoiceBillingPeriod != *f.BillingPeriod) {
			continue
		}
		if f.IsTuition != nil && inv.InvoiceIsTuition != *f.IsTuition {
			continue
		}
		out = append(out, copyInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceID > out[j].InvoiceID })
	return out, nil
}
