package cfgloader

// Options holds configuration options for Load and MustLoad.
type Options struct {
	// Silent disables printing the loaded config.
	Silent bool

	// ConfigDir is the directory holding the per environment YAML files.
	ConfigDir string

	// Environment overrides the ENVIRONMENT variable.
	Environment string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables config logging to stdout.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithConfigDir reads the YAML files from dir instead of ./config.
func WithConfigDir(dir string) Option {
	return func(o *Options) {
		o.ConfigDir = dir
	}
}

// WithEnvironment selects env instead of reading ENVIRONMENT.
func WithEnvironment(env string) Option {
	return func(o *Options) {
		o.Environment = env
	}
}
