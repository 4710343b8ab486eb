package auth_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/auth"
)

func validSecret() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
}

func TestNewKeyProvider(t *testing.T) {
	provider, err := auth.NewKeyProvider(validSecret())
	require.NoError(t, err)
	assert.Len(t, provider.Key(), 32)
}

func TestNewKeyProvider_SameKeyEveryCall(t *testing.T) {
	provider, err := auth.NewKeyProvider(validSecret())
	require.NoError(t, err)
	assert.Equal(t, provider.Key(), provider.Key())
}

func TestNewKeyProvider_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"not base64", "this is %% not base64 !!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"31 bytes", base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x01}, 31))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider, err := auth.NewKeyProvider(tc.secret)
			assert.Nil(t, provider)
			require.Error(t, err)

			var keyErr *auth.KeyConfigError
			assert.ErrorAs(t, err, &keyErr)
		})
	}
}
