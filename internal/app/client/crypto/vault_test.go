package crypto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://co1.qualtrics.com/API/v3"

func TestVault_KeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	v := NewVault(path)

	require.NoError(t, v.Save("secret-token", baseURL, ""))

	token, url, err := v.Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
	assert.Equal(t, baseURL, url)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestVault_Passphrase(t *testing.T) {
	v := NewVault(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, v.Save("secret-token", baseURL, "correct horse"))

	tests := []struct {
		name       string
		passphrase string
		wantErr    error
	}{
		{name: "correct passphrase", passphrase: "correct horse"},
		{name: "wrong passphrase", passphrase: "battery staple", wantErr: ErrWrongPassword},
		{name: "missing passphrase", passphrase: "", wantErr: ErrNeedPassphrase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := v.Load(tt.passphrase)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "secret-token", token)
		})
	}
}

func TestVault_TamperedBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	v := NewVault(path)
	require.NoError(t, v.Save("secret-token", baseURL, ""))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(raw), baseURL, "https://evil.example.com", 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o600))

	_, _, err = v.Load("")
	assert.Error(t, err)
}

func TestVault_Clear(t *testing.T) {
	v := NewVault(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, v.Save("secret-token", baseURL, ""))

	require.NoError(t, v.Clear())
	require.NoError(t, v.Clear())

	_, _, err := v.Load("")
	assert.ErrorIs(t, err, ErrNoToken)
}
