package adapters

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"buildlock/internal/core"
	"buildlock/internal/ports"
	"buildlock/internal/shared"
	"buildlock/internal/types"
)

type xmlLockFile struct {
	XMLName         xml.Name        `xml:"lockfile"`
	LockFileVersion string          `xml:"lockFileVersion,attr"`
	Project         xmlProject      `xml:"project"`
	Pom             xmlPom          `xml:"pom"`
	Dependencies    []xmlArtifact   `xml:"dependencyManagement>dependencies>dependency"`
	Plugins         []xmlPlugin     `xml:"plugins>plugin"`
	Extensions      []xmlArtifact   `xml:"extensions>extension"`
	Parents         []xmlArtifact   `xml:"parents>parent"`
	Config          xmlConfig       `xml:"config"`
	Environment     *xmlEnvironment `xml:"environment,omitempty"`
}

type xmlProject struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type xmlPom struct {
	Integrity string `xml:"integrity"`
}

type xmlArtifact struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Classifier string `xml:"classifier,omitempty"`
	Type       string `xml:"type"`
	Scope      string `xml:"scope,omitempty"`
	Optional   *bool  `xml:"optional,omitempty"`
	Integrity  string `xml:"integrity"`
}

type xmlPlugin struct {
	GroupID      string        `xml:"groupId"`
	ArtifactID   string        `xml:"artifactId"`
	Version      string        `xml:"version"`
	Classifier   string        `xml:"classifier,omitempty"`
	Type         string        `xml:"type"`
	Integrity    string        `xml:"integrity"`
	Dependencies []xmlArtifact `xml:"dependencies>dependency"`
}

type xmlConfig struct {
	IncludePlugins         bool   `xml:"includePlugins"`
	IncludeExtensions      bool   `xml:"includeExtensions"`
	IncludeParents         bool   `xml:"includeParents"`
	AllowValidationFailure bool   `xml:"allowValidationFailure"`
	ChecksumAlgorithm      string `xml:"checksumAlgorithm"`
}

type xmlEnvironment struct {
	OS          string `xml:"os,omitempty"`
	Arch        string `xml:"arch,omitempty"`
	ToolVersion string `xml:"toolVersion,omitempty"`
}

// XMLLockFileAdapter stores the lock file as a dependency-management style
// document with an explicit integrity element per artifact.
type XMLLockFileAdapter struct{}

func NewXMLLockFileAdapter() XMLLockFileAdapter {
	return XMLLockFileAdapter{}
}

func (a XMLLockFileAdapter) Read(path string) (types.LockedProject, error) {
	data, err := readLockFile(path)
	if err != nil {
		return types.LockedProject{}, err
	}
	return UnmarshalXMLLockFile(data)
}

func (a XMLLockFileAdapter) Write(path string, project types.LockedProject) (bool, error) {
	data, err := MarshalXMLLockFile(project)
	if err != nil {
		return false, err
	}
	return writeLockFile(path, data)
}

func MarshalXMLLockFile(project types.LockedProject) ([]byte, error) {
	project = core.CanonicalProject(project)
	doc := xmlLockFile{
		LockFileVersion: project.LockFileVersion,
		Project: xmlProject{
			GroupID:    project.Project.GroupID,
			ArtifactID: project.Project.ArtifactID,
			Version:    project.Project.Version,
		},
		Pom: xmlPom{Integrity: project.Pom.String()},
		Config: xmlConfig{
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
		doc.Environment = &xmlEnvironment{
			OS:          project.Environment.OS,
			Arch:        project.Environment.Arch,
			ToolVersion: project.Environment.ToolVersion,
		}
	}
	for _, dep := range project.Dependencies {
		entry := toXMLArtifact(dep.Artifact)
		optional := dep.Optional
		entry.Scope = dep.Scope
		entry.Optional = &optional
		doc.Dependencies = append(doc.Dependencies, entry)
	}
	for _, plugin := range project.Plugins {
		entry := xmlPlugin{
			GroupID:    plugin.ID.GroupID,
			ArtifactID: plugin.ID.ArtifactID,
			Version:    plugin.Version,
			Classifier: plugin.ID.Classifier,
			Type:       plugin.ID.Type,
			Integrity:  plugin.Integrity.String(),
		}
		for _, dep := range plugin.Dependencies {
			entry.Dependencies = append(entry.Dependencies, toXMLArtifact(dep))
		}
		doc.Plugins = append(doc.Plugins, entry)
	}
	for _, extension := range project.Extensions {
		doc.Extensions = append(doc.Extensions, toXMLArtifact(extension.Artifact))
	}
	for _, parent := range project.Parents {
		doc.Parents = append(doc.Parents, toXMLArtifact(parent.Artifact))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode lock file").
			WithCause(err)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func toXMLArtifact(artifact types.Artifact) xmlArtifact {
	return xmlArtifact{
		GroupID:    artifact.ID.GroupID,
		ArtifactID: artifact.ID.ArtifactID,
		Version:    artifact.Version,
		Classifier: artifact.ID.Classifier,
		Type:       artifact.ID.Type,
		Integrity:  artifact.Integrity.String(),
	}
}

// xmlNode is a minimal element tree that remembers where each element
// started, so structural errors can point at a line.
type xmlNode struct {
	name     string
	attrs    map[string]string
	text     strings.Builder
	children []*xmlNode
	line     int
}

func (n *xmlNode) value() string {
	return strings.TrimSpace(n.text.String())
}

func parseXMLTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			msg := err.Error()
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				msg = shared.LineError(syntaxErr.Line, "%s", syntaxErr.Msg)
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to parse lock file xml: %s", msg)).
				WithCause(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			node := &xmlNode{name: t.Name.Local, attrs: map[string]string{}, line: line}
			for _, attr := range t.Attr {
				node.attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, xmlStructureError(node, "unexpected second root element <%s>", node.name)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse lock file xml: no root element")
	}
	return root, nil
}

func xmlStructureError(node *xmlNode, format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(shared.LineError(node.line, format, args...))
}

func UnmarshalXMLLockFile(data []byte) (types.LockedProject, error) {
	root, err := parseXMLTree(data)
	if err != nil {
		return types.LockedProject{}, err
	}
	if root.name != "lockfile" {
		return types.LockedProject{}, xmlStructureError(root, "expected root element <lockfile>, found <%s>", root.name)
	}
	if err := checkLockFileVersion(root.attrs["lockFileVersion"]); err != nil {
		return types.LockedProject{}, wrapLocation(shared.LineError(root.line, "lockfile"), err)
	}
	project := types.LockedProject{
		LockFileVersion: strings.TrimSpace(root.attrs["lockFileVersion"]),
		Pom:             types.IgnoredIntegrity(),
		Config:          types.DefaultLockConfig(),
	}
	seenProject := false
	for _, child := range root.children {
		switch child.name {
		case "project":
			fields, err := xmlFields(child, "groupId", "artifactId", "version")
			if err != nil {
				return types.LockedProject{}, err
			}
			project.Project = types.ProjectCoordinates{
				GroupID:    fields["groupId"],
				ArtifactID: fields["artifactId"],
				Version:    fields["version"],
			}
			if err := requireProject(project.Project); err != nil {
				return types.LockedProject{}, wrapLocation(shared.LineError(child.line, "project"), err)
			}
			seenProject = true
		case "pom":
			fields, err := xmlFields(child, "integrity")
			if err != nil {
				return types.LockedProject{}, err
			}
			pom, err := parseOptionalIntegrity(shared.LineError(child.line, "pom"), fields["integrity"])
			if err != nil {
				return types.LockedProject{}, err
			}
			project.Pom = pom
		case "dependencyManagement":
			deps, err := xmlDependencyManagement(child)
			if err != nil {
				return types.LockedProject{}, err
			}
			project.Dependencies = append(project.Dependencies, deps...)
		case "plugins":
			for _, node := range child.children {
				if node.name != "plugin" {
					return types.LockedProject{}, xmlStructureError(node, "unexpected element <%s> in <plugins>", node.name)
				}
				plugin, err := xmlPluginEntity(node)
				if err != nil {
					return types.LockedProject{}, err
				}
				project.Plugins = append(project.Plugins, plugin)
			}
		case "extensions":
			artifacts, err := xmlArtifactList(child, "extension")
			if err != nil {
				return types.LockedProject{}, err
			}
			for _, artifact := range artifacts {
				project.Extensions = append(project.Extensions, types.Extension{Artifact: artifact})
			}
		case "parents":
			artifacts, err := xmlArtifactList(child, "parent")
			if err != nil {
				return types.LockedProject{}, err
			}
			for _, artifact := range artifacts {
				project.Parents = append(project.Parents, types.Parent{Artifact: artifact})
			}
		case "config":
			config, err := xmlConfigFrom(child)
			if err != nil {
				return types.LockedProject{}, err
			}
			project.Config = config
		case "environment":
			fields, err := xmlFields(child, "os", "arch", "toolVersion")
			if err != nil {
				return types.LockedProject{}, err
			}
			project.Environment = types.Environment{
				OS:          fields["os"],
				Arch:        fields["arch"],
				ToolVersion: fields["toolVersion"],
			}
		default:
			return types.LockedProject{}, xmlStructureError(child, "unexpected element <%s> in <lockfile>", child.name)
		}
	}
	if !seenProject {
		return types.LockedProject{}, xmlStructureError(root, "lockfile: missing required element project")
	}
	return project, nil
}

// xmlFields collects the text of simple child elements, rejecting anything
// not listed.
func xmlFields(node *xmlNode, allowed ...string) (map[string]string, error) {
	fields := make(map[string]string, len(node.children))
	for _, child := range node.children {
		known := false
		for _, name := range allowed {
			if child.name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, xmlStructureError(child, "unexpected element <%s> in <%s>", child.name, node.name)
		}
		if _, dup := fields[child.name]; dup {
			return nil, xmlStructureError(child, "duplicate element <%s> in <%s>", child.name, node.name)
		}
		fields[child.name] = child.value()
	}
	return fields, nil
}

var xmlArtifactFields = []string{"groupId", "artifactId", "version", "classifier", "type", "scope", "optional", "integrity"}

func xmlArtifactEntity(node *xmlNode, extra ...string) (types.Artifact, map[string]*xmlNode, error) {
	nested := map[string]*xmlNode{}
	simple := &xmlNode{name: node.name, line: node.line}
	for _, child := range node.children {
		isExtra := false
		for _, name := range extra {
			if child.name == name {
				nested[name] = child
				isExtra = true
				break
			}
		}
		if !isExtra {
			simple.children = append(simple.children, child)
		}
	}
	fields, err := xmlFields(simple, xmlArtifactFields...)
	if err != nil {
		return types.Artifact{}, nil, err
	}
	optional := false
	if raw, ok := fields["optional"]; ok && raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return types.Artifact{}, nil, xmlStructureError(node, "%s: invalid optional value %q", node.name, raw)
		}
		optional = parsed
	}
	artifact, err := lockedArtifact(
		shared.LineError(node.line, "%s", node.name),
		fields["groupId"], fields["artifactId"], fields["classifier"], fields["type"],
		fields["version"], fields["scope"], optional, fields["integrity"],
	)
	if err != nil {
		return types.Artifact{}, nil, err
	}
	return artifact, nested, nil
}

func xmlArtifactList(node *xmlNode, element string) ([]types.Artifact, error) {
	var artifacts []types.Artifact
	for _, child := range node.children {
		if child.name != element {
			return nil, xmlStructureError(child, "unexpected element <%s> in <%s>", child.name, node.name)
		}
		artifact, _, err := xmlArtifactEntity(child)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

func xmlDependencyManagement(node *xmlNode) ([]types.Dependency, error) {
	var deps []types.Dependency
	for _, child := range node.children {
		if child.name != "dependencies" {
			return nil, xmlStructureError(child, "unexpected element <%s> in <%s>", child.name, node.name)
		}
		artifacts, err := xmlArtifactList(child, "dependency")
		if err != nil {
			return nil, err
		}
		for _, artifact := range artifacts {
			deps = append(deps, types.Dependency{Artifact: artifact})
		}
	}
	return deps, nil
}

func xmlPluginEntity(node *xmlNode) (types.Plugin, error) {
	artifact, nested, err := xmlArtifactEntity(node, "dependencies")
	if err != nil {
		return types.Plugin{}, err
	}
	plugin := types.Plugin{Artifact: artifact}
	if deps, ok := nested["dependencies"]; ok {
		artifacts, err := xmlArtifactList(deps, "dependency")
		if err != nil {
			return types.Plugin{}, err
		}
		plugin.Dependencies = artifacts
	}
	return plugin, nil
}

func xmlConfigFrom(node *xmlNode) (types.LockConfig, error) {
	fields, err := xmlFields(node, "includePlugins", "includeExtensions", "includeParents", "allowValidationFailure", "checksumAlgorithm")
	if err != nil {
		return types.LockConfig{}, err
	}
	config := types.DefaultLockConfig()
	flags := map[string]*bool{
		"includePlugins":         &config.IncludePlugins,
		"includeExtensions":      &config.IncludeExtensions,
		"includeParents":         &config.IncludeParents,
		"allowValidationFailure": &config.AllowValidationFailure,
	}
	for name, target := range flags {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return types.LockConfig{}, xmlStructureError(node, "config: invalid %s value %q", name, raw)
		}
		*target = parsed
	}
	if algorithm, ok := fields["checksumAlgorithm"]; ok && algorithm != "" {
		config.ChecksumAlgorithm = algorithm
	}
	return config, nil
}

var _ ports.LockFilePort = XMLLockFileAdapter{}
