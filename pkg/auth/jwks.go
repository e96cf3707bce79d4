// Package auth resolves the public keys Supabase signs access tokens with.
package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshInterval bounds how often an unknown kid triggers a refetch.
const refreshInterval = time.Minute

var ErrUnknownKey = errors.New("jwks: signing key not found")

type JWKS struct {
	Keys []JSONWebKey `json:"keys"`
}

type JSONWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Provider caches the decoded RSA keys of a JWKS endpoint by kid.
type Provider struct {
	url    string
	client *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewProvider(jwksURL string) *Provider {
	return &Provider{
		url:    jwksURL,
		client: &http.Client{Timeout: 10 * time.Second},
		keys:   map[string]*rsa.PublicKey{},
	}
}

// JWKSURL derives the key set location from a Supabase project URL.
func JWKSURL(supabaseURL string) string {
	return supabaseURL + "/auth/v1/.well-known/jwks.json"
}

// KeyFunc plugs into jwt.Parse for RS256 tokens.
func (p *Provider) KeyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("jwks: token has no kid header")
	}
	return p.PublicKey(context.Background(), kid)
}

// PublicKey returns the key for kid, refetching the set when kid is unknown.
func (p *Provider) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key := p.lookup(kid); key != nil {
		return key, nil
	}
	if err := p.refresh(ctx); err != nil {
		return nil, err
	}
	if key := p.lookup(kid); key != nil {
		return key, nil
	}
	return nil, ErrUnknownKey
}

func (p *Provider) lookup(kid string) *rsa.PublicKey {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.keys[kid]
}

func (p *Provider) refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) > 0 && time.Since(p.fetchedAt) < refreshInterval {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: unexpected status %d", resp.StatusCode)
	}

	var set JWKS
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("jwks: decode: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.RSAPublicKey()
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	p.keys = keys
	p.fetchedAt = time.Now()
	return nil
}

// RSAPublicKey decodes the base64url modulus and exponent.
func (k JSONWebKey) RSAPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("jwks: modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("jwks: exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
