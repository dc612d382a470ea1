package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	teacherModel "schoolmanagement_backend/internals/features/school/teachers/model"
)

func newMockRepo(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormRepository(db), mock
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.True(t, IsNotFound(translate(gorm.ErrRecordNotFound)))
	assert.True(t, IsDuplicate(translate(gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicate(translate(errors.New(`ERROR: duplicate key value violates unique constraint "uniq_teachers_phone" (SQLSTATE 23505)`))))

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
	assert.False(t, IsNotFound(other))
}

func TestFindTuitionInvoice_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE .*invoice_student_id = .*invoice_billing_period = .*invoice_is_tuition = `).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id"}))

	_, err := repo.FindTuitionInvoice(context.Background(), 3, "2025-10")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTuitionInvoice_Found(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "invoices"`).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_id", "invoice_number", "invoice_is_tuition", "invoice_amount_total"}).
			AddRow(11, "INV/2025-10/ABCDEF12", true, 150000))

	inv, err := repo.FindTuitionInvoice(context.Background(), 3, "2025-10")
	require.NoError(t, err)
	assert.Equal(t, uint(11), inv.InvoiceID)
	assert.Equal(t, int64(150000), inv.InvoiceAmountTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTeacher_DuplicatePhone(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "teachers"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "uniq_teachers_phone" (SQLSTATE 23505)`))

	err := repo.CreateTeacher(context.Background(), &teacherModel.TeacherModel{TeacherName: "Budi", TeacherPhone: "0811"})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetTeacherStudentCount_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE "teachers" SET "teacher_student_count"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetTeacherStudentCount(context.Background(), 5, 2)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
