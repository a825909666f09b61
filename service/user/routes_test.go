package user

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Validation failures never reach the database, so a nil db is safe here.
func TestRegisterRejectsInvalidInput(t *testing.T) {
	handler := NewHandler(nil)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "non-institutional email",
			body: `{"full_name": "Ana Torres", "email": "ana@gmail.com", "password": "secreto123"}`,
		},
		{
			name: "short password",
			body: `{"full_name": "Ana Torres", "email": "ana@ucvvirtual.edu.pe", "password": "corta"}`,
		},
		{
			name: "missing name",
			body: `{"email": "ana@ucvvirtual.edu.pe", "password": "secreto123"}`,
		},
		{
			name: "one-letter name",
			body: `{"full_name": "A", "email": "ana@ucvvirtual.edu.pe", "password": "secreto123"}`,
		},
		{
			name: "malformed JSON",
			body: `{"full_name": `,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.HandleRegister(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestRegisterExplainsDomainRestriction(t *testing.T) {
	handler := NewHandler(nil)

	body := `{"full_name": "Ana Torres", "email": "ana@gmail.com", "password": "secreto123"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.HandleRegister(rec, req)

	if !strings.Contains(rec.Body.String(), InstitutionalDomain) {
		t.Errorf("rejection should name the allowed domain, got %q", rec.Body.String())
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateVerificationCode()
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains a non-digit", code)
			}
		}
	}
}

func TestGenerateRefreshTokenIsBoundToUser(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	token, err := generateRefreshToken(42)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(token, "42_") {
		t.Errorf("token %q does not carry the user ID prefix", token)
	}

	other, err := generateRefreshToken(42)
	if err != nil {
		t.Fatal(err)
	}
	if token == other {
		t.Error("consecutive tokens must differ")
	}
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	token, err := generateJWT(7, "Ana Torres")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token %q is not a compact JWT", token)
	}
}
