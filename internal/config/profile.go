package config

import (
	"fmt"
	"slices"

	"github.com/nao1215/mailscrub/internal/model"
)

// Settings are the targets and cleanup options of one profile.
type Settings struct {
	// Targets are the redirect destinations.
	Targets model.RedirectTargets `yaml:"targets,omitempty"`

	// Cleanup are the cleanup passes to enable.
	Cleanup model.CleanupFlags `yaml:"cleanup,omitempty"`
}

// File represents the structure of the .mailscrub configuration file.
type File struct {
	// Defaults apply to every run and are the base of every profile.
	Defaults Settings `yaml:"defaults,omitempty"`

	// Profiles maps a profile name to the settings merged over Defaults.
	Profiles map[string]Settings `yaml:"profiles,omitempty"`
}

// Profile returns the settings of the named profile merged over the
// defaults. An empty name returns the defaults. Targets set in the profile
// win; cleanup options are enabled when either side enables them.
func (f *File) Profile(name string) (Settings, error) {
	if name == "" {
		return f.Defaults, nil
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}

	return Settings{
		Targets: p.Targets.Merge(f.Defaults.Targets),
		Cleanup: p.Cleanup.Merge(f.Defaults.Cleanup),
	}, nil
}

// ProfileNames returns the defined profile names in sorted order.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
