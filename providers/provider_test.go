package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagwarden/tagwarden/types"
)

type fakeProvider struct {
	region string
}

func (f *fakeProvider) ListResources(ctx context.Context, filter types.ResourceFilter) ([]types.Resource, error) {
	return nil, nil
}
func (f *fakeProvider) Name() string   { return "fake" }
func (f *fakeProvider) Region() string { return f.region }

func TestProviderRegistry(t *testing.T) {
	RegisterProvider("fake", func(ctx context.Context, config ProviderConfig) (CloudProvider, error) {
		return &fakeProvider{region: config.Region}, nil
	})

	p, err := GetProvider(context.Background(), "fake", ProviderConfig{Region: "us-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "fake", p.Name())
	assert.Equal(t, "us-east-1", p.Region())

	assert.Contains(t, ListProviders(), "fake")
}

func TestGetProvider_Unknown(t *testing.T) {
	_, err := GetProvider(context.Background(), "nonexistent", ProviderConfig{})
	require.Error(t, err)
}
