// Package providers defines the seam between the scan orchestration and
// the per-region cloud inventory.
package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/tagwarden/tagwarden/types"
)

// CloudProvider lists resources with their current tags in one region
type CloudProvider interface {
	ListResources(ctx context.Context, filter types.ResourceFilter) ([]types.Resource, error)

	Name() string
	Region() string
}

// ProviderConfig holds provider configuration
type ProviderConfig struct {
	Region string
}

// ProviderFactory creates a provider instance for one region
type ProviderFactory func(ctx context.Context, config ProviderConfig) (CloudProvider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]ProviderFactory)
)

// RegisterProvider registers a provider factory by name
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// GetProvider creates a provider instance by name
func GetProvider(ctx context.Context, name string, config ProviderConfig) (CloudProvider, error) {
	mu.RLock()
	factory, exists := factories[name]
	mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	return factory(ctx, config)
}

// ListProviders returns available provider names
func ListProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
