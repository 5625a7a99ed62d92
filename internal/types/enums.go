package types

type VersionPolicy string

const (
	VersionPolicyCheck             VersionPolicy = "check"
	VersionPolicyUseProjectVersion VersionPolicy = "useProjectVersion"
	VersionPolicySnapshot          VersionPolicy = "snapshot"
	VersionPolicyIgnore            VersionPolicy = "ignore"
)

type IntegrityPolicy string

const (
	IntegrityPolicyCheck  IntegrityPolicy = "check"
	IntegrityPolicyIgnore IntegrityPolicy = "ignore"
)

type IntegrityKind string

const (
	IntegrityKindCalculated IntegrityKind = "calculated"
	IntegrityKindFolder     IntegrityKind = "folder"
	IntegrityKindIgnored    IntegrityKind = "ignored"
)

type LockFileFormat string

const (
	LockFileFormatAuto LockFileFormat = ""
	LockFileFormatJSON LockFileFormat = "json"
	LockFileFormatXML  LockFileFormat = "xml"
)

type EntityKind string

const (
	EntityKindDependencies EntityKind = "dependencies"
	EntityKindPlugins      EntityKind = "plugins"
	EntityKindExtensions   EntityKind = "extensions"
	EntityKindParents      EntityKind = "parents"
	EntityKindPom          EntityKind = "pom"
)
