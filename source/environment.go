package source

import (
	"os"
	"sort"
	"strings"
)

// Environment is the process environment as seen by the providers.
type Environment interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	Environ() []string
}

// OSEnvironment reads and writes the real process environment.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnvironment) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (OSEnvironment) Environ() []string                   { return os.Environ() }

// MapEnvironment is an in-memory environment, used by tests and by callers
// that must not touch the process environment.
type MapEnvironment map[string]string

func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapEnvironment) Setenv(key, value string) error {
	m[key] = value
	return nil
}

func (m MapEnvironment) Environ() []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// environMap turns "KEY=value" pairs into a map.
func environMap(env Environment) map[string]string {
	vars := env.Environ()
	m := make(map[string]string, len(vars))
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	return m
}
