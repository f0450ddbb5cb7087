// Package config provides an optional declarative bootstrap surface for
// a reactor program, alongside the code-first embedded DSL in
// internal/reactor and internal/scheduler. It is additive: nothing in the
// code-first surface requires it, and it never runs during the
// scheduler's reaction-firing stream, only at construction time.
package config

// AppConfig is the complete declarative specification for a reactor
// program's top-level scheduling knobs and the named reactor banks to
// attach under the root before Start.
// Use AppConfig when a program's shape is better expressed as a
// reviewable YAML document than as Go construction code: CI-driven
// topology changes, operator-tunable timeouts, or a library consumer
// that has no Go compiler in the loop.
type AppConfig struct {
	// Version is the configuration schema version, checked so that a
	// document written against a future (or past) incompatible schema
	// fails fast instead of loading with silently wrong defaults.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata carries descriptive, non-semantic information about the
	// program for operator discovery and dashboards.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Scheduling controls the main loop's timeout/keepAlive/fast knobs,
	// mirroring internal/scheduler.App's With* builder methods.
	Scheduling SchedulingConfig `yaml:"scheduling"`
	// Banks lists the named reactor banks to construct and attach under
	// the root reactor, each resolved through a Registry by its Type.
	Banks []BankConfig `yaml:"banks" validate:"required,min=1,dive"`
}

// Metadata provides descriptive information about a reactor program to
// support organization, discovery, and operational dashboards.
type Metadata struct {
	// Name is the human-readable identifier for this program.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description documents the program's purpose for operators.
	Description string `yaml:"description" validate:"max=1000"`
	// Tags are categorical labels for filtering and grouping programs
	// by functional domain.
	Tags []string `yaml:"tags" validate:"max=20,dive,min=1,max=50"`
}

// SchedulingConfig mirrors internal/scheduler.App's With* builder
// methods so a program's timing behavior can be described declaratively.
type SchedulingConfig struct {
	// TimeoutSeconds bounds the run: once logical time would advance
	// past this many seconds, the scheduler proceeds to shutdown. Zero
	// means no timeout.
	TimeoutSeconds float64 `yaml:"timeout_seconds" validate:"omitempty,min=0"`
	// KeepAlive controls whether an empty queue before timeout keeps the
	// scheduler waiting instead of shutting down immediately.
	KeepAlive bool `yaml:"keep_alive"`
	// Fast selects fast mode: logical time advances immediately to each
	// popped tag instead of pacing against the wall clock.
	Fast bool `yaml:"fast"`
}

// BankConfig describes one named reactor bank to construct under the
// program's root, resolved by Type through a Registry-registered
// BankMemberFactory.
type BankConfig struct {
	// ID is the unique name this bank is attached under.
	ID string `yaml:"id" validate:"required,alphanum,min=1,max=100"`
	// Type names the registered BankMemberFactory that builds this bank's
	// reactor members.
	Type string `yaml:"type" validate:"required"`
	// Width is the number of bank members to construct, mirroring
	// internal/reactor's Bank[R] replicated-instance type.
	Width int `yaml:"width" validate:"required,min=1,max=10000"`
	// Parameters carries factory-specific configuration, decoded by the
	// registered BankMemberFactory itself.
	Parameters map[string]any `yaml:"parameters"`
}
