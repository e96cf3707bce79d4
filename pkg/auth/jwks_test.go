package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderKeyFunc(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JSONWebKey{{
			Kid: "k1",
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(priv.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(priv.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL)

	sign := func(kid string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "user-1"})
		tok.Header["kid"] = kid
		s, err := tok.SignedString(priv)
		require.NoError(t, err)
		return s
	}

	t.Run("Known kid verifies", func(t *testing.T) {
		parsed, err := jwt.Parse(sign("k1"), p.KeyFunc)
		require.NoError(t, err)
		sub, _ := parsed.Claims.GetSubject()
		assert.Equal(t, "user-1", sub)
	})

	t.Run("Keys are cached", func(t *testing.T) {
		_, err := jwt.Parse(sign("k1"), p.KeyFunc)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("Unknown kid fails", func(t *testing.T) {
		_, err := jwt.Parse(sign("k2"), p.KeyFunc)
		assert.Error(t, err)
	})

	t.Run("HMAC token is rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"})
		s, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = jwt.Parse(s, p.KeyFunc)
		assert.Error(t, err)
	})
}

func TestJWKSURL(t *testing.T) {
	assert.Equal(t, "https://x.supabase.co/auth/v1/.well-known/jwks.json", JWKSURL("https://x.supabase.co"))
}

func TestProviderSkipsNonRSAKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JSONWebKey{{Kid: "ec", Kty: "EC"}}})
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL).PublicKey(context.Background(), "ec")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestProviderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL).PublicKey(context.Background(), "k1")
	assert.ErrorContains(t, err, "unexpected status 502")
}
