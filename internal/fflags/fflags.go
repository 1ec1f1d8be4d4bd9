package fflags

import (
	"fmt"
	"sort"
	"sync"

	"github.com/huddle-io/huddle/internal/util"
	"go.uber.org/zap"
)

// FFlags holds the feature flags of the api server. Most flags are read
// from environment variables, computed flags can depend on other state.
type FFlags struct {
	logger *zap.SugaredLogger
	mu     sync.RWMutex
	Flags  map[string]func() bool
}

func NewFFlags(logger *zap.SugaredLogger) *FFlags {
	return &FFlags{
		logger: logger,
		Flags:  map[string]func() bool{},
	}
}

// RegisterEnvFlag registers a flag whose value is parsed from env, falling
// back to defaultValue when env is unset or not a boolean.
func (f *FFlags) RegisterEnvFlag(flag string, env string, defaultValue bool) {
	f.RegisterFlag(flag, func() bool {
		value, err := util.GetenvBool(env, defaultValue)
		if err != nil {
			f.logger.Warnw("invalid feature flag value, using the default", "flag", flag, "default", defaultValue, "error", err)
		}
		return value
	})
}

func (f *FFlags) RegisterFlag(flag string, fn func() bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Flags[flag] = fn
}

// ListFlags returns a map of all currently defined feature flags and
// whether those features are enabled (true) or not (false).
func (f *FFlags) ListFlags() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := map[string]bool{}
	for name, fn := range f.Flags {
		result[name] = fn()
	}
	return result
}

// Names returns the registered flag names in sorted order.
func (f *FFlags) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.Flags))
	for name := range f.Flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetFlag returns whether the feature named by the string parameter
// flag is enabled (true) or not (false). An error is returned if
// the flag name is invalid.
func (f *FFlags) GetFlag(flag string) (bool, error) {
	f.mu.RLock()
	fn, ok := f.Flags[flag]
	f.mu.RUnlock()
	if !ok {
		f.logger.Errorf("Invalid feature flag name: %s", flag)
		return false, fmt.Errorf("invalid feature flag name: %s", flag)
	}
	return fn(), nil
}
