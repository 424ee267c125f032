package cli

import (
	"fmt"
	"sort"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/host"
	"github.com/reglet-dev/stubhost/infrastructure/discovery"
)

// loadManifests discovers and loads every plugin manifest under dir, in
// path order.
func (a *App) loadManifests(dir string, patterns []string) ([]*entities.PluginManifest, error) {
	finder, err := discovery.NewDirFinder(dir, patterns...)
	if err != nil {
		return nil, err
	}
	files, err := finder.ReadAll()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	loader := host.NewLoader(host.WithHostConfig(a.Config))
	manifests := make([]*entities.PluginManifest, 0, len(paths))
	for _, p := range paths {
		m, err := loader.LoadManifest(files[p], a.Values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		a.Logger.Debug("manifest loaded", "path", p, "plugin", m.Name, "components", len(m.Components))
		manifests = append(manifests, m)
	}
	return manifests, nil
}
