package resource

import (
	"context"
	"sort"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

var healthChecks = map[string]HealthCheck{}

// RegisterHealthCheck adds a named dependency check to /health and the gRPC
// health service. Called during startup only.
func RegisterHealthCheck(name string, check HealthCheck) {
	mu.Lock()
	defer mu.Unlock()
	healthChecks[name] = check
}

// HealthChecks returns the registered checks ordered by name.
func HealthChecks() []NamedHealthCheck {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]NamedHealthCheck, 0, len(healthChecks))
	for name, check := range healthChecks {
		out = append(out, NamedHealthCheck{Name: name, Check: check})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type NamedHealthCheck struct {
	Name  string
	Check HealthCheck
}
