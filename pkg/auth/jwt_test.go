package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T, cfg JWTConfig) *JWTService {
	t.Helper()
	if cfg.Secret == "" && cfg.PrivateKeyPEM == "" && cfg.PublicKeyPEM == "" {
		cfg.Secret = "test-secret-key-for-unit-tests"
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "cuotakiwi-test"
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = 15 * time.Minute
	}
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t, JWTConfig{})

	token, err := svc.GenerateToken("advisor-42", "LIM-001", []string{RoleAdvisor})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "advisor-42", claims.Subject)
	assert.Equal(t, "LIM-001", claims.BranchID)
	assert.Equal(t, []string{RoleAdvisor}, claims.Roles)
	assert.Equal(t, "cuotakiwi-test", claims.Issuer)
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{PublicKeyPEM: "not a key"})
	assert.Error(t, err)
}

// rsaKeyPair returns a PEM-encoded 2048-bit RSA private and public key.
func rsaKeyPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})
	return privPEM, pubPEM
}

func TestValidateToken_RSA(t *testing.T) {
	privPEM, pubPEM := rsaKeyPair(t)

	issuer := newTestJWTService(t, JWTConfig{PrivateKeyPEM: string(privPEM)})
	validator := newTestJWTService(t, JWTConfig{PublicKeyPEM: string(pubPEM)})

	token, err := issuer.GenerateToken("client-7", "", []string{RoleAPIClient})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "client-7", claims.Subject)

	_, err = validator.GenerateToken("x", "", nil)
	assert.Error(t, err)

	hmac := newTestJWTService(t, JWTConfig{})
	_, err = validator.ValidateToken(mustToken(t, hmac, RoleAdvisor))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Rejections(t *testing.T) {
	valid := newTestJWTService(t, JWTConfig{})

	t.Run("expired", func(t *testing.T) {
		expired := newTestJWTService(t, JWTConfig{Expiration: -time.Hour})
		_, err := valid.ValidateToken(mustToken(t, expired, RoleAdvisor))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestJWTService(t, JWTConfig{Secret: "another-secret"})
		_, err := valid.ValidateToken(mustToken(t, other, RoleAdvisor))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := newTestJWTService(t, JWTConfig{Issuer: "someone-else"})
		_, err := valid.ValidateToken(mustToken(t, other, RoleAdvisor))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing role", func(t *testing.T) {
		strict := newTestJWTService(t, JWTConfig{RequiredRoles: []string{RoleAdvisor, RoleAPIClient}})
		_, err := strict.ValidateToken(mustToken(t, valid, RoleAdmin))
		assert.ErrorIs(t, err, ErrMissingRole)
	})
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleAdmin, RoleAdvisor}}

	assert.True(t, claims.HasRole(RoleAdmin))
	assert.False(t, claims.HasRole(RoleAPIClient))
	assert.True(t, claims.HasAnyRole(RoleAPIClient, RoleAdvisor))
	assert.False(t, claims.HasAnyRole())
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	want := &Claims{BranchID: "AQP-002"}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), want))
	require.True(t, ok)
	assert.Same(t, want, got)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t, JWTConfig{RequiredRoles: []string{RoleAdvisor}})
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	info := &grpc.UnaryServerInfo{FullMethod: "/cuotakiwi.quote.v1.QuoteService/RequestQuote"}

	var seen *Claims
	handler := func(ctx context.Context, _ any) (any, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}
	withAuth := func(token string) context.Context {
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	}

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)

	_, err = interceptor(context.Background(), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = interceptor(withAuth("garbage"), nil, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = interceptor(withAuth(mustToken(t, svc, RoleAdmin)), nil, info, handler)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	resp, err := interceptor(withAuth(mustToken(t, svc, RoleAdvisor)), nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	require.NotNil(t, seen)
	assert.Equal(t, "LIM-001", seen.BranchID)
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t, JWTConfig{RequiredRoles: []string{RoleAdvisor}})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := ClaimsFromContext(r.Context()); ok {
			w.Header().Set("X-Branch", c.BranchID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h := HTTPMiddleware(svc, []string{"/healthz"})(next)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"skipped path", "/healthz", "", http.StatusNoContent},
		{"missing header", "/v1/quotes", "", http.StatusUnauthorized},
		{"bad token", "/v1/quotes", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "/v1/quotes", "Bearer " + mustToken(t, svc, RoleAdmin), http.StatusForbidden},
		{"valid", "/v1/quotes", "Bearer " + mustToken(t, svc, RoleAdvisor), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, svc, RoleAdvisor))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "LIM-001", rec.Header().Get("X-Branch"))
}

func mustToken(t *testing.T, svc *JWTService, role string) string {
	t.Helper()
	token, err := svc.GenerateToken("advisor-42", "LIM-001", []string{role})
	require.NoError(t, err)
	return token
}
