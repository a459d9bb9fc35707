package glstore

// Option configures a Storage during creation.
//
// Example:
//
//	cfg, _ := glstore.LoadConfig("gl.toml")
//	st, err := glstore.New(fns, effects, sdf, glstore.WithConfig(cfg))
type Option func(*options)

// options holds optional configuration for Storage creation.
type options struct {
	config          Config
	systemFBO       uint32
	defaultTextures bool
}

// defaultOptions returns the default storage options.
func defaultOptions() options {
	return options{
		config:          DefaultConfig(),
		defaultTextures: true,
	}
}

// WithConfig sets the capabilities of the GL context.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithSystemFramebuffer sets the framebuffer name of the window surface.
// It is bound after every offscreen pass and aliased by direct-to-screen
// render targets. The default is 0.
func WithSystemFramebuffer(fbo uint32) Option {
	return func(o *options) {
		o.systemFBO = fbo
	}
}

// WithDefaultTextures controls whether New builds the default texture set.
// It is enabled by default.
func WithDefaultTextures(enabled bool) Option {
	return func(o *options) {
		o.defaultTextures = enabled
	}
}
