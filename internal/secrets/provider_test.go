package secrets_test

import (
	"context"
	"testing"

	"github.com/adipala-ubp/surat-izin/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveSource(t *testing.T) {
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, "development"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, ""))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "production"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceEnvironment, "production"))
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceAuto,
		Environment: "development",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	t.Setenv("SURAT_TEST_SECRET", "value")

	v, err := p.GetSecret(context.Background(), "SURAT_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = p.GetSecret(context.Background(), "SURAT_TEST_MISSING")
	assert.Error(t, err)

	v, err = p.GetSecretOrEnv(context.Background(), "SURAT_TEST_MISSING", "SURAT_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}

func TestProvider_VaultRequiresName(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceVault,
		Environment: "production",
	}, zap.NewNop())
	assert.Error(t, err)
}
