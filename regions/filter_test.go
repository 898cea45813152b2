package regions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enabled = []string{"us-east-1", "us-west-2", "eu-west-1"}

func TestApplyFilter_NoFilter(t *testing.T) {
	got, err := ApplyFilter(enabled, nil)
	require.NoError(t, err)
	assert.Equal(t, enabled, got)
}

func TestApplyFilter_EmptyFilter(t *testing.T) {
	got, err := ApplyFilter(enabled, &Filter{})
	require.NoError(t, err)
	assert.Equal(t, enabled, got)
}

func TestApplyFilter_PreservesFilterOrder(t *testing.T) {
	got, err := ApplyFilter(enabled, &Filter{Regions: []string{"eu-west-1", "us-east-1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, got)
}

func TestApplyFilter_SingleRegion(t *testing.T) {
	got, err := ApplyFilter(enabled, &Filter{Regions: []string{"us-west-2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"us-west-2"}, got)
}

func TestApplyFilter_InvalidRegion(t *testing.T) {
	_, err := ApplyFilter(enabled, &Filter{Regions: []string{"us-east-1", "bogus-region"}})
	require.Error(t, err)

	var filterErr *InvalidRegionFilterError
	require.True(t, errors.As(err, &filterErr))
	assert.Equal(t, []string{"bogus-region"}, filterErr.InvalidRegions)
	assert.Equal(t, enabled, filterErr.EnabledRegions)
}

func TestApplyFilter_ReportsAllInvalidRegions(t *testing.T) {
	_, err := ApplyFilter(enabled, &Filter{
		Regions: []string{"mars-1", "us-east-1", "moon-2", "pluto-3"},
	})
	require.Error(t, err)

	var filterErr *InvalidRegionFilterError
	require.True(t, errors.As(err, &filterErr))
	assert.Equal(t, []string{"mars-1", "moon-2", "pluto-3"}, filterErr.InvalidRegions)
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    *Filter
		wantErr bool
	}{
		{"nil args", nil, nil, false},
		{"no region key", map[string]any{"severity": "error"}, nil, false},
		{"regions list", map[string]any{"regions": []any{"us-east-1", "eu-west-1"}}, &Filter{Regions: []string{"us-east-1", "eu-west-1"}}, false},
		{"regions string slice", map[string]any{"regions": []string{"us-east-1"}}, &Filter{Regions: []string{"us-east-1"}}, false},
		{"single string", map[string]any{"regions": "us-west-2"}, &Filter{Regions: []string{"us-west-2"}}, false},
		{"region alias", map[string]any{"region": "us-west-2"}, &Filter{Regions: []string{"us-west-2"}}, false},
		{"nil value", map[string]any{"regions": nil}, nil, false},
		{"empty list", map[string]any{"regions": []any{}}, nil, false},
		{"empty string", map[string]any{"regions": ""}, nil, false},
		{"non-string entry", map[string]any{"regions": []any{"us-east-1", 42}}, nil, true},
		{"wrong type", map[string]any{"regions": 42}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
