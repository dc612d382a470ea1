package dto

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"schoolmanagement_backend/internals/features/school/students/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/helpers/dbtime"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

/* =========================================================
   REQUEST: CREATE (POST /api/students)
   ========================================================= */

// RequiredCreateFields dicek berurutan; field pertama yang kosong dilaporkan.
var RequiredCreateFields = []string{"name", "dob", "class_id", "partner_id"}

type StudentCreateReq struct {
	Name      string
	DOB       time.Time
	ClassID   uint
	PartnerID uint
	Note      *string
}

// isMissing: hanya key yang tidak ada atau bernilai null.
func isMissing(raw jsoniter.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) == 0 || string(v) == "null"
}

// parseID menerima angka bulat (boleh dalam string). Nilai <= 0 tidak
// mungkin ada di DB, jadi dikembalikan 0 dan cek keberadaan yang
// melaporkan 404.
func parseID(field string, raw jsoniter.RawMessage) (uint, error) {
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, apperror.Validation("Field '%s' harus berupa angka.", field)
		}
		text = strings.TrimSpace(s)
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, apperror.Validation("Field '%s' harus berupa angka bulat.", field)
	}
	if id <= 0 {
		return 0, nil
	}
	return uint(id), nil
}

// ParseStudentCreate validates presence (in RequiredCreateFields order)
// then format. dob di-parse sebagai tanggal kalender di loc.
func ParseStudentCreate(body []byte, loc *time.Location) (*StudentCreateReq, error) {
	fields := map[string]jsoniter.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, apperror.Validation("Body harus berupa JSON object.")
	}
	for _, f := range RequiredCreateFields {
		if isMissing(fields[f]) {
			return nil, apperror.Validation("Field '%s' wajib diisi!", f)
		}
	}

	var out StudentCreateReq
	if err := json.Unmarshal(fields["name"], &out.Name); err != nil {
		return nil, apperror.Validation("Field 'name' harus berupa teks.")
	}
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		return nil, apperror.Validation("Field 'name' wajib diisi!")
	}

	var dob string
	if err := json.Unmarshal(fields["dob"], &dob); err != nil {
		return nil, apperror.Validation("Field 'dob' harus berformat YYYY-MM-DD.")
	}
	d, err := dbtime.ParseDate(dob, loc)
	if err != nil {
		return nil, apperror.Validation("Field 'dob' harus berformat YYYY-MM-DD.")
	}
	out.DOB = d

	if out.ClassID, err = parseID("class_id", fields["class_id"]); err != nil {
		return nil, err
	}
	if out.PartnerID, err = parseID("partner_id", fields["partner_id"]); err != nil {
		return nil, err
	}

	if raw, ok := fields["note"]; ok && !isMissing(raw) {
		var note string
		if err := json.Unmarshal(raw, &note); err == nil {
			if note = strings.TrimSpace(note); note != "" {
				out.Note = &note
			}
		}
	}
	return &out, nil
}

/* =========================================================
   REQUEST: PATCH
   ========================================================= */

type StudentPatchReq struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=120"`
	DOB          *string `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClearDOB     bool    `json:"clear_dob,omitempty"`
	ClassID      *uint   `json:"class_id,omitempty" validate:"omitempty,gt=0"`
	ClearClass   bool    `json:"clear_class,omitempty"`
	PartnerID    *uint   `json:"partner_id,omitempty" validate:"omitempty,gt=0"`
	ClearPartner bool    `json:"clear_partner,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	Note         *string `json:"note,omitempty"`
}

// Apply assumes Validate (validator tags) already passed.
func (r *StudentPatchReq) Apply(m *model.StudentModel) {
	if r.Name != nil {
		m.StudentName = strings.TrimSpace(*r.Name)
	}
	if r.ClearDOB {
		m.StudentDOB = nil
	} else if r.DOB != nil {
		if t, err := time.Parse(dbtime.DateLayout, *r.DOB); err == nil {
			d := dbtime.ToDate(t)
			m.StudentDOB = &d
		}
	}
	if r.ClearClass {
		m.StudentClassID = nil
	} else if r.ClassID != nil {
		id := *r.ClassID
		m.StudentClassID = &id
	}
	if r.ClearPartner {
		m.StudentPartnerID = nil
	} else if r.PartnerID != nil {
		id := *r.PartnerID
		m.StudentPartnerID = &id
	}
	if r.IsActive != nil {
		m.StudentIsActive = *r.IsActive
	}
	if r.Note != nil {
		n := strings.TrimSpace(*r.Note)
		if n == "" {
			m.StudentNote = nil
		} else {
			m.StudentNote = &n
		}
	}
}

/* =========================================================
   RESPONSE
   ========================================================= */

// StudentCreatedResponse is the public POST /api/students data shape.
type StudentCreatedResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DOB         string `json:"dob"`
	ClassName   string `json:"class_name"`
	PartnerName string `json:"partner_name"`
}

func ToCreatedResponse(m *model.StudentModel, className, partnerName string) StudentCreatedResponse {
	return StudentCreatedResponse{
		ID:          m.StudentID,
		Name:        m.StudentName,
		DOB:         m.DOBString(),
		ClassName:   className,
		PartnerName: partnerName,
	}
}

type StudentResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	DOB         *string   `json:"dob"`
	ClassID     *uint     `json:"class_id"`
	PartnerID   *uint     `json:"partner_id"`
	IsActive    bool      `json:"is_active"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(m *model.StudentModel, className string) StudentResponse {
	var dob *string
	if s := m.DOBString(); s != "" {
		dob = &s
	}
	return StudentResponse{
		ID:          m.StudentID,
		Name:        m.StudentName,
		DisplayName: m.DisplayName(className),
		DOB:         dob,
		ClassID:     m.StudentClassID,
		PartnerID:   m.StudentPartnerID,
		IsActive:    m.StudentIsActive,
		Note:        m.StudentNote,
		CreatedAt:   m.StudentCreatedAt,
		UpdatedAt:   m.StudentUpdatedAt,
	}
}
