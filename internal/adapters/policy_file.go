package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"buildlock/internal/ports"
	"buildlock/internal/types"
)

type PolicyFileAdapter struct{}

func NewPolicyFileAdapter() PolicyFileAdapter {
	return PolicyFileAdapter{}
}

// LoadPolicies reads the ordered rule list. An empty path means no rules.
func (a PolicyFileAdapter) LoadPolicies(path string) ([]types.PolicyRule, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("policy file not found: %s", path)).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read policy file").
			WithCause(err)
	}
	var file types.PolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse policy yaml").
			WithCause(err)
	}
	return file.Policies, nil
}

var _ ports.PolicySourcePort = PolicyFileAdapter{}
