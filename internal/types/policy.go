package types

// PolicyRule overrides how artifacts matching its patterns are compared.
// Unset fields fall through to the next matching rule and finally to the
// defaults (check, check, false, false).
type PolicyRule struct {
	Includes         []string         `yaml:"includes,omitempty" mapstructure:"includes"`
	Excludes         []string         `yaml:"excludes,omitempty" mapstructure:"excludes"`
	Version          *VersionPolicy   `yaml:"version,omitempty" mapstructure:"version"`
	Integrity        *IntegrityPolicy `yaml:"integrity,omitempty" mapstructure:"integrity"`
	AllowMissing     *bool            `yaml:"allow_missing,omitempty" mapstructure:"allow_missing"`
	AllowSuperfluous *bool            `yaml:"allow_superfluous,omitempty" mapstructure:"allow_superfluous"`
}

// PolicyFile is the top-level structure of a policy YAML file.
type PolicyFile struct {
	Policies []PolicyRule `yaml:"policies"`
}
