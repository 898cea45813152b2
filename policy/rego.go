package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/tagwarden/tagwarden/telemetry"
	"github.com/tagwarden/tagwarden/types"
)

// RegoEngine evaluates custom Rego rules on top of the built-in tag
// checks. Rules live under the data.tagwarden namespace and emit a
// "violations" set of objects with tag_key, kind, severity and message.
type RegoEngine struct {
	logger  *telemetry.Logger
	queries map[string]rego.PreparedEvalQuery
}

// RegoInput is the document handed to each rule
type RegoInput struct {
	Resource  types.Resource `json:"resource"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewRegoEngine creates an engine with no rules loaded
func NewRegoEngine() *RegoEngine {
	return &RegoEngine{
		logger:  telemetry.NewLogger("policy-rego"),
		queries: make(map[string]rego.PreparedEvalQuery),
	}
}

// LoadRule compiles and registers one Rego rule
func (e *RegoEngine) LoadRule(ctx context.Context, name, regoCode string) error {
	query := rego.New(
		rego.Query("data.tagwarden"),
		rego.Module(name, regoCode),
	)

	prepared, err := query.PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("failed to compile rule %s: %w", name, err)
	}

	e.queries[name] = prepared

	e.logger.WithContext(ctx).Info().
		Str("rule", name).
		Msg("rego rule loaded")
	return nil
}

// LoadDir loads every .rego file under dir
func (e *RegoEngine) LoadDir(ctx context.Context, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".rego") {
			return nil
		}
		code, err := os.ReadFile(path) // #nosec G304 -- operator-supplied rule dir
		if err != nil {
			return fmt.Errorf("failed to read rule %s: %w", path, err)
		}
		return e.LoadRule(ctx, filepath.Base(path), string(code))
	})
}

// RuleCount returns how many rules are loaded
func (e *RegoEngine) RuleCount() int {
	return len(e.queries)
}

// Evaluate runs every loaded rule against the resource and collects the
// violations they emit. A rule that fails to evaluate is logged and
// skipped; one broken rule must not sink the scan.
func (e *RegoEngine) Evaluate(ctx context.Context, resource types.Resource) ([]types.Violation, error) {
	input := RegoInput{Resource: resource, Timestamp: time.Now().UTC()}

	var violations []types.Violation
	for name, query := range e.queries {
		results, err := query.Eval(ctx, rego.EvalInput(input))
		if err != nil {
			e.logger.WithContext(ctx).Error().
				Err(err).
				Str("rule", name).
				Str("resource_id", resource.ID).
				Msg("rego rule evaluation failed")
			continue
		}
		violations = append(violations, e.parseResults(results, resource)...)
	}
	return violations, nil
}

func (e *RegoEngine) parseResults(results rego.ResultSet, resource types.Resource) []types.Violation {
	var out []types.Violation
	for _, res := range results {
		for _, expr := range res.Expressions {
			doc, ok := expr.Value.(map[string]interface{})
			if !ok {
				continue
			}
			raw, ok := doc["violations"]
			if !ok {
				continue
			}
			entries, ok := raw.([]interface{})
			if !ok {
				continue
			}
			for _, entry := range entries {
				fields, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				out = append(out, violationFromRego(fields, resource))
			}
		}
	}
	return out
}

func violationFromRego(fields map[string]interface{}, resource types.Resource) types.Violation {
	v := types.Violation{
		ResourceID:   resource.ID,
		ResourceType: resource.Type,
		ResourceName: resource.Name,
		Region:       resource.Region,
		Kind:         types.ViolationInvalidValue,
		Severity:     types.SeverityError,
	}
	if s, ok := fields["tag_key"].(string); ok {
		v.TagKey = s
	}
	if s, ok := fields["kind"].(string); ok {
		v.Kind = types.ViolationKind(s)
	}
	if s, ok := fields["severity"].(string); ok {
		v.Severity = types.Severity(s)
	}
	if s, ok := fields["message"].(string); ok {
		v.Message = s
	}
	if s, ok := fields["current_value"].(string); ok {
		v.CurrentValue = s
	}
	return v
}
