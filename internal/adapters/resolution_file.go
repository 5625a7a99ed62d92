package adapters

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"buildlock/internal/core"
	"buildlock/internal/ports"
	"buildlock/internal/types"
)

// ResolutionFileAdapter reads a resolution manifest and computes the
// integrity of every referenced file before handing the project to the core.
type ResolutionFileAdapter struct {
	Digests ports.DigestPort
	Workers int
}

func NewResolutionFileAdapter(digests ports.DigestPort, workers int) ResolutionFileAdapter {
	return ResolutionFileAdapter{Digests: digests, Workers: workers}
}

type digestJob struct {
	file   string
	target *types.Integrity
}

func (a ResolutionFileAdapter) LoadResolution(ctx context.Context, path string) (types.LockedProject, error) {
	if strings.TrimSpace(path) == "" {
		return types.LockedProject{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.LockedProject{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("resolution file not found: %s", path)).
				WithCause(err)
		}
		return types.LockedProject{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read resolution file").
			WithCause(err)
	}
	var manifest types.ResolutionManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return types.LockedProject{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse resolution manifest").
			WithCause(err)
	}
	return a.Build(ctx, manifest, filepath.Dir(path))
}

// Build converts a manifest into a project. Relative file paths are resolved
// against baseDir.
func (a ResolutionFileAdapter) Build(ctx context.Context, manifest types.ResolutionManifest, baseDir string) (types.LockedProject, error) {
	project := types.LockedProject{
		Project: types.ProjectCoordinates{
			GroupID:    strings.TrimSpace(manifest.Project.GroupID),
			ArtifactID: strings.TrimSpace(manifest.Project.ArtifactID),
			Version:    strings.TrimSpace(manifest.Project.Version),
		},
		Pom: types.IgnoredIntegrity(),
	}
	if err := requireProject(project.Project); err != nil {
		return types.LockedProject{}, err
	}

	var files []string
	pomFile := ""
	switch {
	case strings.TrimSpace(manifest.Project.PomIntegrity) != "":
		pom, err := core.ParseIntegrity(manifest.Project.PomIntegrity)
		if err != nil {
			return types.LockedProject{}, wrapLocation("project.pomIntegrity", err)
		}
		project.Pom = pom
	case strings.TrimSpace(manifest.Project.Pom) != "":
		pomFile = resolveManifestPath(baseDir, manifest.Project.Pom)
	}

	for i, entry := range manifest.Dependencies {
		artifact, file, err := manifestArtifact(fmt.Sprintf("dependencies[%d]", i), entry, baseDir, true)
		if err != nil {
			return types.LockedProject{}, err
		}
		project.Dependencies = append(project.Dependencies, types.Dependency{Artifact: artifact})
		files = append(files, file)
	}
	for i, entry := range manifest.Plugins {
		location := fmt.Sprintf("plugins[%d]", i)
		artifact, file, err := manifestArtifact(location, entry.ManifestArtifact, baseDir, false)
		if err != nil {
			return types.LockedProject{}, err
		}
		plugin := types.Plugin{Artifact: artifact}
		files = append(files, file)
		for j, dep := range entry.Dependencies {
			depArtifact, depFile, err := manifestArtifact(fmt.Sprintf("%s.dependencies[%d]", location, j), dep, baseDir, false)
			if err != nil {
				return types.LockedProject{}, err
			}
			plugin.Dependencies = append(plugin.Dependencies, depArtifact)
			files = append(files, depFile)
		}
		project.Plugins = append(project.Plugins, plugin)
	}
	for i, entry := range manifest.Extensions {
		artifact, file, err := manifestArtifact(fmt.Sprintf("extensions[%d]", i), entry, baseDir, false)
		if err != nil {
			return types.LockedProject{}, err
		}
		project.Extensions = append(project.Extensions, types.Extension{Artifact: artifact})
		files = append(files, file)
	}
	for i, entry := range manifest.Parents {
		artifact, file, err := manifestArtifact(fmt.Sprintf("parents[%d]", i), entry, baseDir, false)
		if err != nil {
			return types.LockedProject{}, err
		}
		project.Parents = append(project.Parents, types.Parent{Artifact: artifact})
		files = append(files, file)
	}

	// The slices are final now, so pointers into them stay valid while the
	// digests are filled in.
	jobs := collectDigestJobs(&project, files)
	if pomFile != "" {
		jobs = append(jobs, digestJob{file: pomFile, target: &project.Pom})
	}
	if err := a.digest(ctx, jobs); err != nil {
		return types.LockedProject{}, err
	}
	return project, nil
}

// collectDigestJobs walks the entities in the same order Build appended
// their files.
func collectDigestJobs(project *types.LockedProject, files []string) []digestJob {
	var targets []*types.Integrity
	for i := range project.Dependencies {
		targets = append(targets, &project.Dependencies[i].Integrity)
	}
	for i := range project.Plugins {
		targets = append(targets, &project.Plugins[i].Integrity)
		for j := range project.Plugins[i].Dependencies {
			targets = append(targets, &project.Plugins[i].Dependencies[j].Integrity)
		}
	}
	for i := range project.Extensions {
		targets = append(targets, &project.Extensions[i].Integrity)
	}
	for i := range project.Parents {
		targets = append(targets, &project.Parents[i].Integrity)
	}
	var jobs []digestJob
	for i, file := range files {
		if file == "" {
			continue
		}
		jobs = append(jobs, digestJob{file: file, target: targets[i]})
	}
	return jobs
}

func (a ResolutionFileAdapter) digest(ctx context.Context, jobs []digestJob) error {
	if len(jobs) == 0 {
		return nil
	}
	if a.Digests == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("resolution references artifact files but no digest source is configured")
	}
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log.Ctx(ctx).Debug().Int("files", len(jobs)).Int("workers", workers).Msg("digesting artifact files")

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, job := range jobs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			integrity, err := a.Digests.DigestFile(job.file)
			if err != nil {
				return err
			}
			*job.target = integrity
			return nil
		})
	}
	return group.Wait()
}

func manifestArtifact(location string, entry types.ManifestArtifact, baseDir string, withScope bool) (types.Artifact, string, error) {
	id, err := types.NewArtifactIdentifier(entry.GroupID, entry.ArtifactID, entry.Classifier, entry.Type)
	if err != nil {
		return types.Artifact{}, "", wrapLocation(location, err)
	}
	opts := types.ArtifactOptions{Integrity: types.IgnoredIntegrity()}
	if withScope {
		opts.Scope = entry.Scope
		opts.Optional = entry.Optional
	}
	file := ""
	switch {
	case strings.TrimSpace(entry.Integrity) != "":
		integrity, err := core.ParseIntegrity(entry.Integrity)
		if err != nil {
			return types.Artifact{}, "", wrapLocation(location, err)
		}
		opts.Integrity = integrity
	case strings.TrimSpace(entry.File) != "":
		file = resolveManifestPath(baseDir, entry.File)
	}
	artifact, err := types.NewArtifact(id, entry.Version, opts)
	if err != nil {
		return types.Artifact{}, "", wrapLocation(location, err)
	}
	return artifact, file, nil
}

func resolveManifestPath(baseDir string, path string) string {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

var _ ports.ResolutionPort = ResolutionFileAdapter{}
