package mw_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/peerconnect/backend/internal/transport/mw"
)

const secret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func runAuth(t *testing.T, req *http.Request) (int, int64) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var studentID int64
	h := mw.JWTAuth(secret)(func(c echo.Context) error {
		studentID, _ = c.Get("studentID").(int64)
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		he, ok := err.(*echo.HTTPError)
		if !ok {
			t.Fatal(err)
		}
		return he.Code, 0
	}
	return rec.Code, studentID
}

func TestJWTAuth_ValidBearerToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"studentId": float64(42)}, secret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	code, studentID := runAuth(t, req)
	if code != http.StatusOK || studentID != 42 {
		t.Fatalf("code=%d studentID=%d", code, studentID)
	}
}

func TestJWTAuth_QueryParamFallbackForSSE(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "7"}, secret)
	req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)

	code, studentID := runAuth(t, req)
	if code != http.StatusOK || studentID != 7 {
		t.Fatalf("code=%d studentID=%d", code, studentID)
	}
}

func TestJWTAuth_RejectsWrongKey(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"studentId": float64(1)}, "other-secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	if code, _ := runAuth(t, req); code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", code)
	}
}

func TestJWTAuth_RejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if code, _ := runAuth(t, req); code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", code)
	}
}

func TestJWTAuth_RejectsTokenWithoutStudentID(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"role": "guest"}, secret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	if code, _ := runAuth(t, req); code != http.StatusUnauthorized {
		t.Fatalf("code=%d, want 401", code)
	}
}
