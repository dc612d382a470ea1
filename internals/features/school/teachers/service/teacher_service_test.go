package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	studentModel "schoolmanagement_backend/internals/features/school/students/model"
	"schoolmanagement_backend/internals/features/school/teachers/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories/memory"
)

func newTeacher(name, phone string) *model.TeacherModel {
	return &model.TeacherModel{TeacherName: name, TeacherPhone: phone, TeacherIsActive: true}
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	return ae.Message
}

func TestTeacherCreate_RejectsDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	svc := NewTeacherService(memory.New())

	require.NoError(t, svc.Create(ctx, newTeacher("Budi", "0811")))

	err := svc.Create(ctx, newTeacher("Sari", "0811"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))
	assert.Equal(t, "Nomor telepon '0811' sudah digunakan oleh guru lain.", messageOf(t, err))

	list, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTeacherCreate_RequiresNameAndPhone(t *testing.T) {
	svc := NewTeacherService(memory.New())

	err := svc.Create(context.Background(), newTeacher("  ", "0811"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	err = svc.Create(context.Background(), newTeacher("Budi", ""))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestTeacherUpdate_PhoneCheckExcludesSelf(t *testing.T) {
	ctx := context.Background()
	svc := NewTeacherService(memory.New())

	budi := newTeacher("Budi", "0811")
	sari := newTeacher("Sari", "0822")
	require.NoError(t, svc.Create(ctx, budi))
	require.NoError(t, svc.Create(ctx, sari))

	// simpan ulang nomor sendiri boleh
	updated, err := svc.Update(ctx, budi.TeacherID, func(m *model.TeacherModel) {
		m.TeacherName = "Budi Santoso"
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.TeacherName)

	_, err = svc.Update(ctx, sari.TeacherID, func(m *model.TeacherModel) {
		m.TeacherPhone = "0811"
	})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	got, err := svc.Get(ctx, sari.TeacherID)
	require.NoError(t, err)
	assert.Equal(t, "0822", got.TeacherPhone)
}

func TestTeacherUpdate_CannotOverrideStudentCount(t *testing.T) {
	ctx := context.Background()
	svc := NewTeacherService(memory.New())
	m := newTeacher("Budi", "0811")
	require.NoError(t, svc.Create(ctx, m))

	updated, err := svc.Update(ctx, m.TeacherID, func(m *model.TeacherModel) {
		m.TeacherStudentCount = 99
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.TeacherStudentCount)
}

func TestTeacherGet_NotFound(t *testing.T) {
	_, err := NewTeacherService(memory.New()).Get(context.Background(), 42)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRecomputeStudentCount_CountsAllStudentsOfAllClasses(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	teacher := newTeacher("Budi", "0811")
	require.NoError(t, repo.CreateTeacher(ctx, teacher))

	tid := teacher.TeacherID
	c1 := &classModel.ClassModel{ClassName: "1A", ClassTeacherID: &tid, ClassIsActive: true}
	c2 := &classModel.ClassModel{ClassName: "1B", ClassTeacherID: &tid, ClassIsActive: true}
	other := &classModel.ClassModel{ClassName: "2A", ClassIsActive: true}
	for _, c := range []*classModel.ClassModel{c1, c2, other} {
		require.NoError(t, repo.CreateClass(ctx, c))
	}

	add := func(name string, classID uint, active bool) {
		id := classID
		require.NoError(t, repo.CreateStudent(ctx, &studentModel.StudentModel{
			StudentName: name, StudentClassID: &id, StudentIsActive: active,
		}))
	}
	add("Andi", c1.ClassID, true)
	add("Bayu", c1.ClassID, false)
	add("Citra", c2.ClassID, true)
	add("Dewi", other.ClassID, true)

	require.NoError(t, RecomputeStudentCount(ctx, repo, &tid))

	got, err := repo.GetTeacher(ctx, tid)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TeacherStudentCount)

	assert.NoError(t, RecomputeStudentCount(ctx, repo, nil))
}

func TestTeacherDelete_UnassignsClasses(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	svc := NewTeacherService(repo)

	teacher := newTeacher("Budi", "0811")
	require.NoError(t, svc.Create(ctx, teacher))
	tid := teacher.TeacherID
	class := &classModel.ClassModel{ClassName: "1A", ClassTeacherID: &tid, ClassIsActive: true}
	require.NoError(t, repo.CreateClass(ctx, class))

	require.NoError(t, svc.Delete(ctx, tid))

	got, err := repo.GetClass(ctx, class.ClassID)
	require.NoError(t, err)
	assert.Nil(t, got.ClassTeacherID)

	assert.True(t, apperror.Is(svc.Delete(ctx, tid), apperror.KindNotFound))
}
