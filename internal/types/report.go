package types

import (
	"fmt"
	"strings"
)

// DiffReport is the outcome of reconciling one locked entity set with the
// live resolution.
type DiffReport struct {
	Missing    []string
	Different  []string
	Extraneous []string
}

func (r DiffReport) Equal() bool {
	return len(r.Missing) == 0 && len(r.Different) == 0 && len(r.Extraneous) == 0
}

// Lines flattens the report for logging, one category-prefixed line per entry.
func (r DiffReport) Lines() []string {
	var lines []string
	for _, entry := range r.Missing {
		lines = append(lines, "missing: "+entry)
	}
	for _, entry := range r.Extraneous {
		lines = append(lines, "extraneous: "+entry)
	}
	for _, entry := range r.Different {
		lines = append(lines, "different: "+entry)
	}
	return lines
}

type ProjectDiff struct {
	Dependencies DiffReport
	Plugins      DiffReport
	Extensions   DiffReport
	Parents      DiffReport
	Pom          DiffReport
}

func (d ProjectDiff) Equal() bool {
	return d.Dependencies.Equal() &&
		d.Plugins.Equal() &&
		d.Extensions.Equal() &&
		d.Parents.Equal() &&
		d.Pom.Equal()
}

func (d ProjectDiff) Reports() []KindReport {
	return []KindReport{
		{Kind: EntityKindDependencies, Report: d.Dependencies},
		{Kind: EntityKindPlugins, Report: d.Plugins},
		{Kind: EntityKindExtensions, Report: d.Extensions},
		{Kind: EntityKindParents, Report: d.Parents},
		{Kind: EntityKindPom, Report: d.Pom},
	}
}

type KindReport struct {
	Kind   EntityKind
	Report DiffReport
}

// Render groups the report by category first and entity kind second.
func (d ProjectDiff) Render() string {
	var builder strings.Builder
	sections := []struct {
		title   string
		entries func(DiffReport) []string
	}{
		{title: "Missing", entries: func(r DiffReport) []string { return r.Missing }},
		{title: "Extraneous", entries: func(r DiffReport) []string { return r.Extraneous }},
		{title: "Different", entries: func(r DiffReport) []string { return r.Different }},
	}
	for _, section := range sections {
		for _, kind := range d.Reports() {
			entries := section.entries(kind.Report)
			if len(entries) == 0 {
				continue
			}
			fmt.Fprintf(&builder, "%s %s:\n", section.title, kind.Kind)
			for _, entry := range entries {
				fmt.Fprintf(&builder, "  %s\n", entry)
			}
		}
	}
	return builder.String()
}
