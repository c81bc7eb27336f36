package manifest

// Server configures the dispatch listener.
type Server struct {
	Address        string `toml:"address"`
	Workers        int    `toml:"workers"`          // 0 keeps the Go runtime default
	ReadBufferSize int    `toml:"read_buffer_size"` // bytes read per request
	MaxHeaders     int    `toml:"max_headers"`

	// HandlerTimeoutMS is the deadline set on the handler ctx; a deferred
	// result still pending then is abandoned. 0 waits indefinitely.
	HandlerTimeoutMS int64 `toml:"handler_timeout_ms"`
}

// Admin configures the optional HTTP surface for /ping, /metrics and /functions.
type Admin struct {
	Address string `toml:"address"` // empty disables the admin server
}

// Log configures zap/lumberjack output.
type Log struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"` // debug | info | warn | error
}

// Auth configures the token validator handed to handlers.
type Auth struct {
	PublicKeyFile   string `toml:"public_key_file"`
	TokenLifetimeMS int64  `toml:"token_lifetime_ms"`
	FutureLeewayMS  int64  `toml:"future_leeway_ms"`

	// Key fetch from the issuing service when no file is configured.
	IssuerURL string `toml:"issuer_url"`
	Login     string `toml:"login"`
	Password  string `toml:"password"`
}

// Enabled reports whether any key source is configured.
func (a Auth) Enabled() bool {
	return a.PublicKeyFile != "" || a.IssuerURL != ""
}

const (
	DefaultAddress         = "127.0.0.1:7777"
	DefaultReadBufferSize  = 2048
	DefaultMaxHeaders      = 32
	DefaultLogDir          = "log"
	DefaultLogLevel        = "info"
	DefaultTokenLifetimeMS = 30_000
)
