package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagwarden/tagwarden/types"
)

func testPolicy(t *testing.T) *TagPolicy {
	t.Helper()
	p := &TagPolicy{
		Version: "1",
		Rules: []TagRule{
			{Key: "Team", Required: true},
			{Key: "Environment", Required: true, AllowedValues: []string{"prod", "staging", "dev"}},
			{Key: "CostCenter", Required: true, Pattern: `^CC-\d{4}$`, Severity: "warning"},
			{Key: "Backup", Required: true, AppliesTo: []string{"rds", "dynamodb"}},
		},
	}
	require.NoError(t, p.Compile())
	return p
}

func TestValidate_CompliantResource(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{
			"Team":        "platform",
			"Environment": "prod",
			"CostCenter":  "CC-1234",
		},
	}
	assert.Empty(t, p.Validate(r))
}

func TestValidate_MissingRequiredTag(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{"Environment": "prod", "CostCenter": "CC-1234"},
	}

	violations := p.Validate(r)
	require.Len(t, violations, 1)
	assert.Equal(t, types.ViolationMissingTag, violations[0].Kind)
	assert.Equal(t, "Team", violations[0].TagKey)
	assert.Equal(t, types.SeverityError, violations[0].Severity)
}

func TestValidate_EmptyValueCountsAsMissing(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{"Team": "", "Environment": "prod", "CostCenter": "CC-1234"},
	}

	violations := p.Validate(r)
	require.Len(t, violations, 1)
	assert.Equal(t, types.ViolationMissingTag, violations[0].Kind)
}

func TestValidate_InvalidValue(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{"Team": "web", "Environment": "production", "CostCenter": "CC-1234"},
	}

	violations := p.Validate(r)
	require.Len(t, violations, 1)
	assert.Equal(t, types.ViolationInvalidValue, violations[0].Kind)
	assert.Equal(t, "production", violations[0].CurrentValue)
	assert.Equal(t, []string{"prod", "staging", "dev"}, violations[0].AllowedValues)
}

func TestValidate_AllowedValuesCaseInsensitive(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{"Team": "web", "Environment": "Prod", "CostCenter": "CC-1234"},
	}
	assert.Empty(t, p.Validate(r))
}

func TestValidate_InvalidFormat(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{"Team": "web", "Environment": "prod", "CostCenter": "marketing"},
	}

	violations := p.Validate(r)
	require.Len(t, violations, 1)
	assert.Equal(t, types.ViolationInvalidFormat, violations[0].Kind)
	assert.Equal(t, types.SeverityWarning, violations[0].Severity)
}

func TestValidate_AppliesTo(t *testing.T) {
	p := testPolicy(t)

	ec2 := types.Resource{
		ID:   "i-1",
		Type: "ec2",
		Tags: map[string]string{"Team": "web", "Environment": "prod", "CostCenter": "CC-1234"},
	}
	assert.Empty(t, p.Validate(ec2), "Backup rule must not apply to ec2")

	rds := types.Resource{
		ID:   "db-1",
		Type: "rds",
		Tags: map[string]string{"Team": "web", "Environment": "prod", "CostCenter": "CC-1234"},
	}
	violations := p.Validate(rds)
	require.Len(t, violations, 1)
	assert.Equal(t, "Backup", violations[0].TagKey)
}

func TestValidate_UntaggedResourceCollectsAllViolations(t *testing.T) {
	p := testPolicy(t)
	r := types.Resource{ID: "i-1", Type: "rds"}

	violations := p.Validate(r)
	assert.Len(t, violations, 4)
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `version: "1"
rules:
  - key: Team
    required: true
  - key: Environment
    required: true
    allowed_values: [prod, dev]
    severity: warning
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Len(t, p.Rules, 2)
	assert.True(t, p.Rules[0].Required)
}

func TestLoadPolicy_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `version: "1"
rules:
  - key: Team
    required: true
    pattern: "["
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadPolicy(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestCompile_RejectsEmptyPolicy(t *testing.T) {
	p := &TagPolicy{Version: "1"}
	require.Error(t, p.Compile())
}

func TestCompile_RejectsUnknownSeverity(t *testing.T) {
	p := &TagPolicy{Rules: []TagRule{{Key: "Team", Severity: "critical"}}}
	require.Error(t, p.Compile())
}
