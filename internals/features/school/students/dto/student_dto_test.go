package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolmanagement_backend/internals/helpers/apperror"
)

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperror.KindValidation, ae.Kind)
	return ae.Message
}

func TestParseStudentCreate_RequiredFieldsInOrder(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{}`, "Field 'name' wajib diisi!"},
		{`{"dob":"2015-01-01","class_id":1,"partner_id":1}`, "Field 'name' wajib diisi!"},
		{`{"name":"Andi"}`, "Field 'dob' wajib diisi!"},
		{`{"name":"Andi","dob":null,"class_id":1,"partner_id":1}`, "Field 'dob' wajib diisi!"},
		{`{"name":"Andi","dob":"2015-01-01"}`, "Field 'class_id' wajib diisi!"},
		{`{"name":"Andi","dob":"2015-01-01","partner_id":1}`, "Field 'class_id' wajib diisi!"},
		{`{"name":"Andi","dob":"2015-01-01","class_id":3,"partner_id":null}`, "Field 'partner_id' wajib diisi!"},
	}
	for _, tt := range tests {
		_, err := ParseStudentCreate([]byte(tt.body), time.UTC)
		assert.Equal(t, tt.want, validationMessage(t, err), tt.body)
	}
}

func TestParseStudentCreate_Formats(t *testing.T) {
	bad := []string{
		`not json`,
		`{"name":"Andi","dob":"01-02-2015","class_id":1,"partner_id":1}`,
		`{"name":"Andi","dob":20150101,"class_id":1,"partner_id":1}`,
		`{"name":"Andi","dob":"2015-01-01","class_id":"abc","partner_id":1}`,
		`{"name":"Andi","dob":"","class_id":1,"partner_id":1}`,
		`{"name":"Andi","dob":"2015-01-01","class_id":true,"partner_id":1}`,
		`{"name":"Andi","dob":"2015-01-01","class_id":1,"partner_id":1.5}`,
		`{"name":123,"dob":"2015-01-01","class_id":1,"partner_id":1}`,
	}
	for _, body := range bad {
		_, err := ParseStudentCreate([]byte(body), time.UTC)
		assert.True(t, apperror.Is(err, apperror.KindValidation), body)
	}
}

func TestParseStudentCreate_OK(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	req, err := ParseStudentCreate([]byte(`{"name":"  Andi ","dob":"2015-01-31","class_id":"7","partner_id":9,"note":" pindahan "}`), loc)
	require.NoError(t, err)
	assert.Equal(t, "Andi", req.Name)
	assert.Equal(t, time.Date(2015, 1, 31, 0, 0, 0, 0, loc), req.DOB)
	assert.Equal(t, uint(7), req.ClassID)
	assert.Equal(t, uint(9), req.PartnerID)
	require.NotNil(t, req.Note)
	assert.Equal(t, "pindahan", *req.Note)
}

// id 0 / negatif lolos parse, ditolak oleh cek keberadaan (404).
func TestParseStudentCreate_NonPositiveIDsPassToExistenceCheck(t *testing.T) {
	tests := []struct {
		body           string
		class, partner uint
	}{
		{`{"name":"Andi","dob":"2015-01-01","class_id":0,"partner_id":1}`, 0, 1},
		{`{"name":"Andi","dob":"2015-01-01","class_id":-5,"partner_id":2}`, 0, 2},
		{`{"name":"Andi","dob":"2015-01-01","class_id":3,"partner_id":"0"}`, 3, 0},
	}
	for _, tt := range tests {
		req, err := ParseStudentCreate([]byte(tt.body), time.UTC)
		require.NoError(t, err, tt.body)
		assert.Equal(t, tt.class, req.ClassID, tt.body)
		assert.Equal(t, tt.partner, req.PartnerID, tt.body)
	}
}
