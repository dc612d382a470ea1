package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolmanagement_backend/internals/configs"
	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	productModel "schoolmanagement_backend/internals/features/finance/products/model"
	classModel "schoolmanagement_backend/internals/features/school/classes/model"
	studentService "schoolmanagement_backend/internals/features/school/students/service"
	teacherModel "schoolmanagement_backend/internals/features/school/teachers/model"
	helper "schoolmanagement_backend/internals/helpers"
	"schoolmanagement_backend/internals/middlewares"
	"schoolmanagement_backend/internals/repositories"
	"schoolmanagement_backend/internals/repositories/memory"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testServer struct {
	app  *fiber.App
	svc  *Services
	repo *memory.Repository
}

func newTestServer(t *testing.T, mutate func(cfg *configs.Config)) *testServer {
	t.Helper()
	cfg := &configs.Config{
		Timezone:           time.UTC,
		TuitionProductName: configs.DefaultTuitionProductName,
		MidtransServerKey:  "server-key",
	}
	if mutate != nil {
		mutate(cfg)
	}
	repo := memory.New()
	svc := NewServices(repo, cfg, nil)

	app := fiber.New(fiber.Config{
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
	app.Use(middlewares.SchoolLocation(cfg.Timezone))
	SetupRoutes(app, svc, cfg)
	return &testServer{app: app, svc: svc, repo: repo}
}

type envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Count   int                 `json:"count"`
	Data    jsoniter.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func (s *testServer) seedClassAndPartner(t *testing.T) (classID, partnerID uint) {
	t.Helper()
	ctx := context.Background()
	teacher := &teacherModel.TeacherModel{TeacherName: "Budi", TeacherPhone: "0811", TeacherIsActive: true}
	require.NoError(t, s.svc.Teachers.Create(ctx, teacher))
	tid := teacher.TeacherID
	class := &classModel.ClassModel{ClassName: "1A", ClassTeacherID: &tid, ClassIsActive: true}
	require.NoError(t, s.svc.Classes.Create(ctx, class))
	partner := &partnerModel.PartnerModel{PartnerName: "Pak Andi", PartnerIsActive: true}
	require.NoError(t, s.svc.Partners.Create(ctx, partner))
	return class.ClassID, partner.PartnerID
}

func TestListTeachers_Shape(t *testing.T) {
	s := newTestServer(t, nil)
	classID, partnerID := s.seedClassAndPartner(t)

	code, env := s.do(t, http.MethodPost, "/api/students",
		`{"name":"Andi","dob":"2015-01-01","class_id":`+jsonUint(classID)+`,"partner_id":`+jsonUint(partnerID)+`}`)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(t, http.MethodGet, "/api/teachers", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, 1, env.Count)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	keys := make([]string, 0, len(items[0]))
	for k := range items[0] {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "name", "phone", "email", "student_count"}, keys)
	assert.Equal(t, "Budi", items[0]["name"])
	assert.Equal(t, float64(1), items[0]["student_count"])
	assert.Equal(t, "", items[0]["email"])
}

func TestCreateStudent_Endpoint(t *testing.T) {
	s := newTestServer(t, nil)
	classID, partnerID := s.seedClassAndPartner(t)
	ids := `"class_id":` + jsonUint(classID) + `,"partner_id":` + jsonUint(partnerID)

	ctx := context.Background()
	assertNoStudents := func(msg string) {
		t.Helper()
		list, err := s.svc.Students.List(ctx, repositories.StudentFilter{IncludeInactive: true})
		require.NoError(t, err)
		assert.Empty(t, list, msg)
	}

	code, env := s.do(t, http.MethodPost, "/api/students", `{"name":"Andi",`+ids+`}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Field 'dob' wajib diisi!", env.Message)
	assertNoStudents("missing dob")

	for _, badClass := range []string{"999", "0", "-5"} {
		code, env = s.do(t, http.MethodPost, "/api/students", `{"name":"Andi","dob":"2015-01-01","class_id":`+badClass+`,"partner_id":`+jsonUint(partnerID)+`}`)
		assert.Equal(t, http.StatusNotFound, code, badClass)
		assert.Equal(t, "Class ID tidak ditemukan", env.Message, badClass)
		assertNoStudents("class_id " + badClass)
	}

	code, env = s.do(t, http.MethodPost, "/api/students", `{"name":"Andi","dob":"2015-01-01","class_id":`+jsonUint(classID)+`,"partner_id":999}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Partner ID tidak ditemukan", env.Message)
	assertNoStudents("unknown partner")

	future := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	code, env = s.do(t, http.MethodPost, "/api/students", `{"name":"Andi","dob":"`+future+`",`+ids+`}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Tanggal lahir tidak boleh di masa depan.", env.Message)
	assertNoStudents("future dob")

	code, env = s.do(t, http.MethodPost, "/api/students", `{"name":"Andi","dob":"2015-01-01",`+ids+`}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Siswa berhasil ditambahkan", env.Message)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotZero(t, data["id"])
	assert.Equal(t, "Andi", data["name"])
	assert.Equal(t, "2015-01-01", data["dob"])
	assert.Equal(t, "1A", data["class_name"])
	assert.Equal(t, "Pak Andi", data["partner_name"])
}

func TestToggleStudents_Endpoint(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do(t, http.MethodPost, "/api/teachers", `{"name":"Sari","phone":"0899"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env = s.do(t, http.MethodPost, "/api/teachers/"+jsonUint(uint(created["id"].(float64)))+"/toggle-students", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Tidak ada siswa yang terdaftar di kelas Sari.", env.Message)

	code, env = s.do(t, http.MethodPost, "/api/teachers", `{"name":"Rina","phone":"0899"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Nomor telepon '0899' sudah digunakan oleh guru lain.", env.Message)
}

func TestBillingRun_MissingProduct(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do(t, http.MethodPost, "/api/billing/run", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Product 'Biaya Sekolah Bulanan' tidak ditemukan. Harap buat dulu.", env.Message)
}

func TestAuth_RequiredExceptWebhook(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, func(cfg *configs.Config) {
		cfg.RequireAuth = true
		cfg.JWTSecret = secret
	})

	code, _ := s.do(t, http.MethodGet, "/api/teachers", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)

	code, env := s.do(t, http.MethodGet, "/api/teachers", "", "Authorization", "Bearer "+signed)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()})
	signedExpired, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)
	code, _ = s.do(t, http.MethodGet, "/api/teachers", "", "Authorization", "Bearer "+signedExpired)
	assert.Equal(t, http.StatusUnauthorized, code)

	// webhook tidak butuh JWT, tapi signature salah → 403
	code, env = s.do(t, http.MethodPost, "/api/invoices/notification",
		`{"order_id":"INV/2025-10/X-1","status_code":"200","gross_amount":"150000.00","transaction_status":"settlement","signature_key":"bad"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "error", env.Status)
}

func TestBillingRun_IgnoresRequestDeadline(t *testing.T) {
	cfg := &configs.Config{Timezone: time.UTC, TuitionProductName: configs.DefaultTuitionProductName}
	repo := memory.New()
	svc := NewServices(repo, cfg, nil)
	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal, ErrorHandler: helper.ErrorHandler})
	app.Use(middlewares.RequestTimeout(time.Nanosecond))
	SetupRoutes(app, svc, cfg)
	s := &testServer{app: app, svc: svc, repo: repo}

	ctx := context.Background()
	require.NoError(t, svc.Products.Create(ctx, &productModel.ProductModel{
		ProductName: configs.DefaultTuitionProductName, ProductListPrice: 150000, ProductIsActive: true,
	}))
	classID, partnerID := s.seedClassAndPartner(t)
	dob := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.Students.Create(ctx, studentService.CreateStudentInput{
		Name: "Andi", DOB: &dob, ClassID: &classID, PartnerID: &partnerID,
	})
	require.NoError(t, err)

	code, env := s.do(t, http.MethodPost, "/api/billing/run", "")
	require.Equal(t, http.StatusOK, code, env.Message)
	var sum map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, float64(1), sum["created"])
	assert.Nil(t, sum["canceled"])
}

func TestBillingRun_RoleGuard(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, func(cfg *configs.Config) {
		cfg.RequireAuth = true
		cfg.JWTSecret = secret
	})
	bearer := func(role string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "u-1",
			"role": role,
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := tok.SignedString([]byte(secret))
		require.NoError(t, err)
		return "Bearer " + signed
	}

	code, env := s.do(t, http.MethodPost, "/api/billing/run", "", "Authorization", bearer("teacher"))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, env.Message, "billing")

	// lolos guard, gagal karena produk SPP belum ada
	code, _ = s.do(t, http.MethodPost, "/api/billing/run", "", "Authorization", bearer("accountant"))
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
