package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar"

	"buildlock/internal/ports"
	"buildlock/internal/types"
)

// Filters resolves per-artifact comparison policies from an ordered rule
// list. Rules are tried from the most recently declared to the first one;
// for each field the first matching rule that sets it wins.
type Filters struct {
	rules []compiledRule
}

type compiledRule struct {
	includes         []string
	excludes         []string
	version          *types.VersionPolicy
	integrity        *types.IntegrityPolicy
	allowMissing     *bool
	allowSuperfluous *bool
}

func NewFilters(rules []types.PolicyRule) (Filters, error) {
	filters := Filters{rules: make([]compiledRule, 0, len(rules))}
	for idx := len(rules) - 1; idx >= 0; idx-- {
		compiled, err := compileRule(rules[idx])
		if err != nil {
			return Filters{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid policy rule %d", idx+1)).
				WithCause(err)
		}
		filters.rules = append(filters.rules, compiled)
	}
	return filters, nil
}

// DefaultFilters applies the defaults to every artifact.
func DefaultFilters() Filters {
	return Filters{}
}

func (f Filters) VersionPolicy(id types.ArtifactIdentifier) types.VersionPolicy {
	return resolveField(f, id, func(rule compiledRule) *types.VersionPolicy { return rule.version }, types.VersionPolicyCheck)
}

func (f Filters) IntegrityPolicy(id types.ArtifactIdentifier) types.IntegrityPolicy {
	return resolveField(f, id, func(rule compiledRule) *types.IntegrityPolicy { return rule.integrity }, types.IntegrityPolicyCheck)
}

func (f Filters) AllowMissing(id types.ArtifactIdentifier) bool {
	return resolveField(f, id, func(rule compiledRule) *bool { return rule.allowMissing }, false)
}

func (f Filters) AllowSuperfluous(id types.ArtifactIdentifier) bool {
	return resolveField(f, id, func(rule compiledRule) *bool { return rule.allowSuperfluous }, false)
}

func (f Filters) Len() int {
	return len(f.rules)
}

func resolveField[V any](f Filters, id types.ArtifactIdentifier, pick func(compiledRule) *V, fallback V) V {
	for _, rule := range f.rules {
		value := pick(rule)
		if value == nil || !rule.matches(id) {
			continue
		}
		return *value
	}
	return fallback
}

// matches passes the include filter (empty means everything) and fails the
// exclude filter.
func (r compiledRule) matches(id types.ArtifactIdentifier) bool {
	if len(r.includes) > 0 && !matchesAny(r.includes, id) {
		return false
	}
	return !matchesAny(r.excludes, id)
}

func matchesAny(patterns []string, id types.ArtifactIdentifier) bool {
	for _, pattern := range patterns {
		if matchPattern(pattern, id) {
			return true
		}
	}
	return false
}

// matchPattern globs over group:artifact[:classifier]:type. A pattern with
// fewer segments also matches as a segment prefix, so "org.acme" covers the
// whole group and "org.acme:core" every classifier and type of that artifact.
func matchPattern(pattern string, id types.ArtifactIdentifier) bool {
	key := id.String()
	if ok, err := doublestar.Match(pattern, key); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(pattern+":*", key)
	return err == nil && ok
}

func compileRule(rule types.PolicyRule) (compiledRule, error) {
	includes, err := compilePatterns(rule.Includes)
	if err != nil {
		return compiledRule{}, err
	}
	excludes, err := compilePatterns(rule.Excludes)
	if err != nil {
		return compiledRule{}, err
	}
	compiled := compiledRule{
		includes:         includes,
		excludes:         excludes,
		allowMissing:     rule.AllowMissing,
		allowSuperfluous: rule.AllowSuperfluous,
	}
	if rule.Version != nil {
		version, err := ParseVersionPolicy(string(*rule.Version))
		if err != nil {
			return compiledRule{}, err
		}
		compiled.version = &version
	}
	if rule.Integrity != nil {
		integrity, err := ParseIntegrityPolicy(string(*rule.Integrity))
		if err != nil {
			return compiledRule{}, err
		}
		compiled.integrity = &integrity
	}
	return compiled, nil
}

func compilePatterns(patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("empty artifact pattern")
		}
		// Matching a pattern against itself walks every segment of it, which
		// surfaces malformed classes and escapes.
		if _, err := doublestar.Match(trimmed, trimmed); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid artifact pattern %q", trimmed)).
				WithCause(err)
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// ParseVersionPolicy accepts the policy names case-insensitively, with or
// without separators (useProjectVersion, use-project-version).
func ParseVersionPolicy(value string) (types.VersionPolicy, error) {
	switch normalizePolicyName(value) {
	case "check":
		return types.VersionPolicyCheck, nil
	case "useprojectversion":
		return types.VersionPolicyUseProjectVersion, nil
	case "snapshot":
		return types.VersionPolicySnapshot, nil
	case "ignore":
		return types.VersionPolicyIgnore, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown version policy: %s", value))
	}
}

func ParseIntegrityPolicy(value string) (types.IntegrityPolicy, error) {
	switch normalizePolicyName(value) {
	case "check":
		return types.IntegrityPolicyCheck, nil
	case "ignore":
		return types.IntegrityPolicyIgnore, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown integrity policy: %s", value))
	}
}

func normalizePolicyName(value string) string {
	replacer := strings.NewReplacer("-", "", "_", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(value)))
}

var _ ports.PolicyPort = Filters{}
