package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TadiKev/guard-scheduling-system/internal/dto"
	"github.com/TadiKev/guard-scheduling-system/internal/service"
	apperrors "github.com/TadiKev/guard-scheduling-system/pkg/errors"
	"github.com/TadiKev/guard-scheduling-system/pkg/jwt"
	"github.com/TadiKev/guard-scheduling-system/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.UserResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error
	meResult       *dto.UserResponse
	meErr          error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	checkInResult *dto.AttendanceResponse
	checkInErr    error
	listResult    []dto.AttendanceResponse
	listErr       error
	mineResult    []dto.AttendanceResponse
	mineErr       error
}

func (m *mockAttendanceService) CheckIn(_ context.Context, _ *jwt.Claims, _ *dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	return m.checkInResult, m.checkInErr
}
func (m *mockAttendanceService) List(_ context.Context, _ *dto.AttendanceListRequest) ([]dto.AttendanceResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAttendanceService) ListMine(_ context.Context, _ string, _ int) ([]dto.AttendanceResponse, error) {
	return m.mineResult, m.mineErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) AttendanceXLSX(_ context.Context, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock ShiftService ──

type mockShiftService struct {
	createResult *dto.ShiftResponse
	createErr    error
	getResult    *dto.ShiftResponse
	getErr       error
	assignResult *dto.ShiftResponse
	assignErr    error
	recentResult []dto.RecentAssignmentResponse
	recentErr    error
}

func (m *mockShiftService) Create(_ context.Context, _ *dto.CreateShiftRequest) (*dto.ShiftResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockShiftService) Get(_ context.Context, _ string) (*dto.ShiftResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockShiftService) Update(_ context.Context, _ string, _ *dto.UpdateShiftRequest) (*dto.ShiftResponse, error) {
	return nil, nil
}
func (m *mockShiftService) Delete(_ context.Context, _ string) error { return nil }
func (m *mockShiftService) List(_ context.Context, _ *dto.ShiftListRequest) ([]dto.ShiftResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockShiftService) Assign(_ context.Context, _ string, _ *dto.AssignShiftRequest) (*dto.ShiftResponse, error) {
	return m.assignResult, m.assignErr
}
func (m *mockShiftService) RecentAssignments(_ context.Context, _ int) ([]dto.RecentAssignmentResponse, error) {
	return m.recentResult, m.recentErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context, role string) {
	claims := &jwt.Claims{
		UserID:    "test-user-id",
		Role:      role,
		TokenType: "access",
	}
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("claims", claims)
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "guard01",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "guard01",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrUsernameTaken})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Username: "guard01",
		Password: "Test1234",
		Role:     "guard",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.Me)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func checkInBody() io.Reader {
	return jsonBody(map[string]interface{}{
		"qr_payload": map[string]interface{}{"type": "premise", "uuid": "p-uuid"},
	})
}

func TestAttendanceHandler_CheckIn_Success(t *testing.T) {
	mock := &mockAttendanceService{
		checkInResult: &dto.AttendanceResponse{
			RecordID: "att-1",
			Status:   "ON_TIME",
		},
	}
	h := NewAttendanceHandler(mock, &mockExportService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", checkInBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-in", func(c *gin.Context) {
		setAuth(c, "guard")
		h.CheckIn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAttendanceHandler_CheckIn_OutsideWindow(t *testing.T) {
	winErr := &service.OutsideWindowError{
		Details: dto.WindowDetails{
			ShiftID:     "shift-1",
			WindowStart: time.Date(2026, 3, 2, 7, 45, 0, 0, time.UTC),
			WindowEnd:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
		},
	}
	h := NewAttendanceHandler(&mockAttendanceService{checkInErr: winErr}, &mockExportService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", checkInBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-in", func(c *gin.Context) {
		setAuth(c, "guard")
		h.CheckIn(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16001 {
		t.Errorf("expected error code 16001, got %d", resp.Code)
	}
	if resp.Details == nil {
		t.Error("expected window details in response")
	}
}

func TestAttendanceHandler_CheckIn_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"Duplicate", service.ErrDuplicateCheckIn, 409, 16002},
		{"QRUnusable", service.ErrQRUnusable, 400, 16003},
		{"QRMismatch", service.ErrQRMismatch, 400, 16004},
		{"ForceNotAllowed", service.ErrForceNotAllowed, 403, 16005},
		{"NoShiftResolved", service.ErrNoShiftResolved, 404, 16006},
		{"ShiftNotFound", service.ErrShiftNotFound, 404, 16006},
		{"PremiseNotFound", service.ErrPremiseNotFound, 404, 13001},
		{"NotAGuard", service.ErrNotAGuard, 404, 12001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAttendanceHandler(&mockAttendanceService{checkInErr: tt.err}, &mockExportService{})

			w := setupRecorder()
			req := httptest.NewRequest("POST", "/attendance/check-in", checkInBody())
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/attendance/check-in", func(c *gin.Context) {
				setAuth(c, "guard")
				h.CheckIn(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAttendanceHandler_CheckIn_Unauthenticated(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{}, &mockExportService{})

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/attendance/check-in", checkInBody())
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/attendance/check-in", h.CheckIn)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAttendanceHandler_Export_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "签到记录_2026-03-01_2026-03-07.xlsx",
	}
	h := NewAttendanceHandler(&mockAttendanceService{}, mock)

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/attendance/export?start_date=2026-03-01&end_date=2026-03-07", nil)

	r := gin.New()
	r.GET("/attendance/export", h.Export)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestAttendanceHandler_Export_MissingDates(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{}, &mockExportService{})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/attendance/export", nil)

	r := gin.New()
	r.GET("/attendance/export", h.Export)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ShiftHandler Tests
// ═══════════════════════════════════════════════════════════

func TestShiftHandler_Assign_Success(t *testing.T) {
	mock := &mockShiftService{
		assignResult: &dto.ShiftResponse{ShiftID: "shift-1"},
	}
	h := NewShiftHandler(mock)

	w := setupRecorder()
	req := httptest.NewRequest("POST", "/shifts/shift-1/assign", jsonBody(dto.AssignShiftRequest{
		GuardID: "11111111-1111-1111-1111-111111111111",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/shifts/:id/assign", func(c *gin.Context) {
		setAuth(c, "dispatcher")
		h.AssignShift(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestShiftHandler_Assign_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"ShiftTaken", apperrors.ErrShiftTaken, 14003},
		{"GuardBusy", service.ErrGuardBusyThatDay, 14004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewShiftHandler(&mockShiftService{assignErr: tt.err})

			w := setupRecorder()
			req := httptest.NewRequest("POST", "/shifts/shift-1/assign", jsonBody(dto.AssignShiftRequest{
				GuardID: "11111111-1111-1111-1111-111111111111",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/shifts/:id/assign", func(c *gin.Context) {
				setAuth(c, "dispatcher")
				h.AssignShift(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != http.StatusConflict {
				t.Errorf("expected 409, got %d", w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestShiftHandler_Get_NotFound(t *testing.T) {
	h := NewShiftHandler(&mockShiftService{getErr: service.ErrShiftNotFound})

	w := setupRecorder()
	req := httptest.NewRequest("GET", "/shifts/missing", nil)

	r := gin.New()
	r.GET("/shifts/:id", h.GetShift)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
