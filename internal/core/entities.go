package core

import (
	"sort"

	"github.com/rs/zerolog/log"

	"buildlock/internal/types"
)

// Identified is implemented by every lockable entity through its embedded
// types.Artifact.
type Identified interface {
	Identifier() types.ArtifactIdentifier
}

// LockedEntities is a sorted collection with at most one entry per
// identifier.
type LockedEntities[T Identified] struct {
	items []T
	index map[string]int
}

type (
	Dependencies = LockedEntities[types.Dependency]
	Plugins      = LockedEntities[types.Plugin]
	Extensions   = LockedEntities[types.Extension]
	Artifacts    = LockedEntities[types.Artifact]
)

// NewLockedEntities sorts items by identifier. When two items share an
// identifier the first one in input order is kept and the rest are dropped.
func NewLockedEntities[T Identified](items []T) LockedEntities[T] {
	ordered := append([]T(nil), items...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Identifier().Compare(ordered[j].Identifier()) < 0
	})
	entities := LockedEntities[T]{
		items: make([]T, 0, len(ordered)),
		index: make(map[string]int, len(ordered)),
	}
	for _, item := range ordered {
		key := item.Identifier().String()
		if _, exists := entities.index[key]; exists {
			log.Debug().Str("artifact", key).Msg("duplicate identifier dropped")
			continue
		}
		entities.index[key] = len(entities.items)
		entities.items = append(entities.items, item)
	}
	return entities
}

func NewDependencies(items []types.Dependency) Dependencies {
	return NewLockedEntities(items)
}

func NewPlugins(items []types.Plugin) Plugins {
	return NewLockedEntities(items)
}

func NewExtensions(items []types.Extension) Extensions {
	return NewLockedEntities(items)
}

func NewArtifacts(items []types.Artifact) Artifacts {
	return NewLockedEntities(items)
}

func (e LockedEntities[T]) By(id types.ArtifactIdentifier) (T, bool) {
	idx, ok := e.index[id.String()]
	if !ok {
		var zero T
		return zero, false
	}
	return e.items[idx], true
}

// All returns the entries in identifier order.
func (e LockedEntities[T]) All() []T {
	return append([]T(nil), e.items...)
}

func (e LockedEntities[T]) Len() int {
	return len(e.items)
}
