package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"buildlock/internal/core"
	"buildlock/internal/ports"
	"buildlock/internal/shared"
	"buildlock/internal/types"
)

type jsonLockFile struct {
	LockFileVersion string                  `json:"lockFileVersion"`
	Project         jsonProject             `json:"project"`
	Pom             *jsonPom                `json:"pom,omitempty"`
	Artifacts       map[string]jsonArtifact `json:"artifacts"`
	Dependencies    []jsonDependency        `json:"dependencies"`
	Plugins         []jsonPlugin            `json:"plugins"`
	Extensions      []jsonExtension         `json:"extensions"`
	Parents         []string                `json:"parents"`
	Config          *jsonConfig             `json:"config,omitempty"`
	Environment     *jsonEnvironment        `json:"environment,omitempty"`
}

type jsonProject struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

type jsonPom struct {
	Integrity string `json:"integrity"`
}

type jsonArtifact struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Classifier string `json:"classifier,omitempty"`
	Type       string `json:"type"`
	Version    string `json:"version"`
	Integrity  string `json:"integrity"`
}

type jsonDependency struct {
	Artifact string `json:"artifact"`
	Scope    string `json:"scope"`
	Optional bool   `json:"optional"`
}

type jsonPlugin struct {
	Artifact     string   `json:"artifact"`
	Dependencies []string `json:"dependencies"`
}

type jsonExtension struct {
	Artifact string `json:"artifact"`
}

type jsonConfig struct {
	IncludePlugins         bool   `json:"includePlugins"`
	IncludeExtensions      bool   `json:"includeExtensions"`
	IncludeParents         bool   `json:"includeParents"`
	AllowValidationFailure bool   `json:"allowValidationFailure"`
	ChecksumAlgorithm      string `json:"checksumAlgorithm"`
}

type jsonEnvironment struct {
	OS          string `json:"os,omitempty"`
	Arch        string `json:"arch,omitempty"`
	ToolVersion string `json:"toolVersion,omitempty"`
}

type JSONLockFileAdapter struct{}

func NewJSONLockFileAdapter() JSONLockFileAdapter {
	return JSONLockFileAdapter{}
}

func (a JSONLockFileAdapter) Read(path string) (types.LockedProject, error) {
	data, err := readLockFile(path)
	if err != nil {
		return types.LockedProject{}, err
	}
	return UnmarshalJSONLockFile(data)
}

func (a JSONLockFileAdapter) Write(path string, project types.LockedProject) (bool, error) {
	data, err := MarshalJSONLockFile(project)
	if err != nil {
		return false, err
	}
	return writeLockFile(path, data)
}

// MarshalJSONLockFile renders the canonical form: entity sets sorted and
// deduplicated, artifacts stored once under their key.
func MarshalJSONLockFile(project types.LockedProject) ([]byte, error) {
	project = core.CanonicalProject(project)
	doc := jsonLockFile{
		LockFileVersion: project.LockFileVersion,
		Project: jsonProject{
			GroupID:    project.Project.GroupID,
			ArtifactID: project.Project.ArtifactID,
			Version:    project.Project.Version,
		},
		Pom:          &jsonPom{Integrity: project.Pom.String()},
		Artifacts:    map[string]jsonArtifact{},
		Dependencies: make([]jsonDependency, 0, len(project.Dependencies)),
		Plugins:      make([]jsonPlugin, 0, len(project.Plugins)),
		Extensions:   make([]jsonExtension, 0, len(project.Extensions)),
		Parents:      make([]string, 0, len(project.Parents)),
		Config: &jsonConfig{
			IncludePlugins:         project.Config.IncludePlugins,
			IncludeExtensions:      project.Config.IncludeExtensions,
			IncludeParents:         project.Config.IncludeParents,
			AllowValidationFailure: project.Config.AllowValidationFailure,
			ChecksumAlgorithm:      project.Config.ChecksumAlgorithm,
		},
	}
	if doc.LockFileVersion == "" {
		doc.LockFileVersion = types.CurrentLockFileVersion
	}
	if project.Environment != (types.Environment{}) {
		doc.Environment = &jsonEnvironment{
			OS:          project.Environment.OS,
			Arch:        project.Environment.Arch,
			ToolVersion: project.Environment.ToolVersion,
		}
	}
	stored := map[string]types.Artifact{}
	for _, dep := range project.Dependencies {
		doc.Dependencies = append(doc.Dependencies, jsonDependency{
			Artifact: storeJSONArtifact(stored, dep.Artifact),
			Scope:    dep.Scope,
			Optional: dep.Optional,
		})
	}
	for _, plugin := range project.Plugins {
		entry := jsonPlugin{
			Artifact:     storeJSONArtifact(stored, plugin.Artifact),
			Dependencies: make([]string, 0, len(plugin.Dependencies)),
		}
		for _, dep := range plugin.Dependencies {
			entry.Dependencies = append(entry.Dependencies, storeJSONArtifact(stored, dep))
		}
		doc.Plugins = append(doc.Plugins, entry)
	}
	for _, extension := range project.Extensions {
		doc.Extensions = append(doc.Extensions, jsonExtension{
			Artifact: storeJSONArtifact(stored, extension.Artifact),
		})
	}
	for _, parent := range project.Parents {
		doc.Parents = append(doc.Parents, storeJSONArtifact(stored, parent.Artifact))
	}
	for key, artifact := range stored {
		doc.Artifacts[key] = jsonArtifact{
			GroupID:    artifact.ID.GroupID,
			ArtifactID: artifact.ID.ArtifactID,
			Classifier: artifact.ID.Classifier,
			Type:       artifact.ID.Type,
			Version:    artifact.Version,
			Integrity:  artifact.Integrity.String(),
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode lock file").
			WithCause(err)
	}
	return buf.Bytes(), nil
}

// storeJSONArtifact records the artifact under its key. Scope and optional
// belong to the referencing entry, so only coordinates and integrity are
// stored.
func storeJSONArtifact(stored map[string]types.Artifact, artifact types.Artifact) string {
	key := shared.ArtifactKey(artifact)
	entry := types.Artifact{
		ID:        artifact.ID,
		Version:   artifact.Version,
		Integrity: artifact.Integrity,
	}
	if existing, ok := stored[key]; ok {
		if !existing.Equal(entry) {
			log.Warn().Str("artifact", key).Msg("artifact locked with conflicting integrity values, keeping the first")
		}
		return key
	}
	stored[key] = entry
	return key
}

func UnmarshalJSONLockFile(data []byte) (types.LockedProject, error) {
	var doc jsonLockFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		msg := "failed to parse lock file json"
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			msg = shared.LineError(lineAt(data, syntaxErr.Offset), "%s", msg)
		case errors.As(err, &typeErr):
			msg = shared.LineError(lineAt(data, typeErr.Offset), "%s", msg)
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			msg = fmt.Sprintf("%s: %s", msg, strings.TrimPrefix(err.Error(), "json: "))
		}
		return types.LockedProject{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(msg).
			WithCause(err)
	}
	if dec.More() {
		return types.LockedProject{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse lock file json: trailing data after the document")
	}
	if err := checkLockFileVersion(doc.LockFileVersion); err != nil {
		return types.LockedProject{}, err
	}
	project := types.LockedProject{
		LockFileVersion: doc.LockFileVersion,
		Project: types.ProjectCoordinates{
			GroupID:    doc.Project.GroupID,
			ArtifactID: doc.Project.ArtifactID,
			Version:    doc.Project.Version,
		},
		Pom:    types.IgnoredIntegrity(),
		Config: types.DefaultLockConfig(),
	}
	if err := requireProject(project.Project); err != nil {
		return types.LockedProject{}, err
	}
	if doc.Pom != nil {
		pom, err := parseOptionalIntegrity("pom", doc.Pom.Integrity)
		if err != nil {
			return types.LockedProject{}, err
		}
		project.Pom = pom
	}
	if doc.Config != nil {
		project.Config = types.LockConfig{
			IncludePlugins:         doc.Config.IncludePlugins,
			IncludeExtensions:      doc.Config.IncludeExtensions,
			IncludeParents:         doc.Config.IncludeParents,
			AllowValidationFailure: doc.Config.AllowValidationFailure,
			ChecksumAlgorithm:      doc.Config.ChecksumAlgorithm,
		}
	}
	if doc.Environment != nil {
		project.Environment = types.Environment{
			OS:          doc.Environment.OS,
			Arch:        doc.Environment.Arch,
			ToolVersion: doc.Environment.ToolVersion,
		}
	}

	artifacts := make(map[string]types.Artifact, len(doc.Artifacts))
	for key, entry := range doc.Artifacts {
		artifact, err := lockedArtifact(
			fmt.Sprintf("artifacts[%q]", key),
			entry.GroupID, entry.ArtifactID, entry.Classifier, entry.Type,
			entry.Version, "", false, entry.Integrity,
		)
		if err != nil {
			return types.LockedProject{}, err
		}
		artifacts[key] = artifact
	}
	resolve := func(location string, key string) (types.Artifact, error) {
		artifact, ok := artifacts[key]
		if !ok {
			return types.Artifact{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s: unknown artifact reference %q", location, key))
		}
		return artifact, nil
	}

	for i, entry := range doc.Dependencies {
		artifact, err := resolve(fmt.Sprintf("dependencies[%d]", i), entry.Artifact)
		if err != nil {
			return types.LockedProject{}, err
		}
		if entry.Scope != "" {
			artifact.Scope = entry.Scope
		}
		artifact.Optional = entry.Optional
		project.Dependencies = append(project.Dependencies, types.Dependency{Artifact: artifact})
	}
	for i, entry := range doc.Plugins {
		location := fmt.Sprintf("plugins[%d]", i)
		artifact, err := resolve(location, entry.Artifact)
		if err != nil {
			return types.LockedProject{}, err
		}
		plugin := types.Plugin{Artifact: artifact}
		for j, key := range entry.Dependencies {
			dep, err := resolve(fmt.Sprintf("%s.dependencies[%d]", location, j), key)
			if err != nil {
				return types.LockedProject{}, err
			}
			plugin.Dependencies = append(plugin.Dependencies, dep)
		}
		project.Plugins = append(project.Plugins, plugin)
	}
	for i, entry := range doc.Extensions {
		artifact, err := resolve(fmt.Sprintf("extensions[%d]", i), entry.Artifact)
		if err != nil {
			return types.LockedProject{}, err
		}
		project.Extensions = append(project.Extensions, types.Extension{Artifact: artifact})
	}
	for i, key := range doc.Parents {
		artifact, err := resolve(fmt.Sprintf("parents[%d]", i), key)
		if err != nil {
			return types.LockedProject{}, err
		}
		project.Parents = append(project.Parents, types.Parent{Artifact: artifact})
	}
	return project, nil
}

func requireProject(project types.ProjectCoordinates) error {
	if project.GroupID == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project: missing required field groupId")
	}
	if project.ArtifactID == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project: missing required field artifactId")
	}
	return nil
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	return 1 + bytes.Count(data[:offset], []byte("\n"))
}

var _ ports.LockFilePort = JSONLockFileAdapter{}
