package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseEndpoint(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"AWS uses SDK default", Config{Provider: ProviderAWS, Region: "us-east-1"}, ""},
		{"Wasabi known region", Config{Provider: ProviderWasabi, Region: "eu-central-1"}, "https://s3.eu-central-1.wasabisys.com"},
		{"Wasabi unknown region", Config{Provider: ProviderWasabi, Region: "mars-1"}, "https://s3.ap-southeast-1.wasabisys.com"},
		{"R2 account", Config{Provider: ProviderR2, R2AccountID: "abc123"}, "https://abc123.r2.cloudflarestorage.com"},
		{"Explicit host", Config{Provider: ProviderR2, Endpoint: "minio.local:9000"}, "https://minio.local:9000"},
		{"Explicit URL", Config{Endpoint: "http://localhost:9000"}, "http://localhost:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BaseEndpoint(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("R2 without account fails", func(t *testing.T) {
		_, err := BaseEndpoint(Config{Provider: ProviderR2})
		assert.Error(t, err)
	})
}

func TestNewArchiverRequiresBucket(t *testing.T) {
	a, err := NewArchiver(context.Background(), Config{Provider: ProviderR2, R2AccountID: "x"})
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
