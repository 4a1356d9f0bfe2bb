package update

import (
	"strings"

	"github.com/MrSnakeDoc/hassglue/internal/entity"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
)

// Entities builds the update entity set for the current cache contents:
// Supervisor and Core always, one per add-on, and OS on Home Assistant OS.
func Entities(cache Cache, updater Updater) []Facade {
	addons := cache.Addons()
	out := make([]Facade, 0, len(addons)+3)
	out = append(out,
		NewSupervisorUpdate(cache, updater),
		NewCoreUpdate(cache, updater),
	)
	for _, a := range addons {
		out = append(out, NewAddonUpdate(cache, updater, a.Slug))
	}
	if cache.IsHassOS() {
		out = append(out, NewOSUpdate(cache, updater))
	}
	return out
}

// SyncRegistry makes the update entities in reg match the cache: new add-ons
// are added, uninstalled ones removed. Other entities are left alone.
func SyncRegistry(reg *entity.Registry, cache Cache, updater Updater) {
	want := make(map[string]Facade)
	for _, f := range Entities(cache, updater) {
		want[f.ID()] = f
	}

	for _, e := range reg.All() {
		if !strings.HasPrefix(e.ID(), IDPrefix) {
			continue
		}
		if _, ok := want[e.ID()]; !ok {
			reg.Remove(e.ID())
			logger.Info("removed update entity %s", e.ID())
		}
	}
	for _, f := range Entities(cache, updater) {
		if _, exists := reg.Get(f.ID()); !exists {
			reg.Add(f)
			logger.Debug("added update entity %s", f.ID())
		}
	}
}

// Find returns the façade with the given entity id.
func Find(facades []Facade, id string) (Facade, bool) {
	for _, f := range facades {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}
