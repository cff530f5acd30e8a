package basilisk

import (
	"sync"

	"github.com/rs/zerolog"
)

// Config holds the settings for one namespace. The namespace's registry
// reads its entry exactly once, when it is first built; later Configure
// calls do not affect namespaces that are already live.
type Config struct {
	// OpenKV returns the key-value client shared by every model and proxy
	// in the namespace. Connection pooling is the client's concern.
	OpenKV func() (KV, error)

	// OpenDocs returns the document client shared by every document model
	// in the namespace.
	OpenDocs func() (DocStore, error)

	// Index is the index document models write to. Defaults to the
	// namespace name.
	Index string

	// Logger receives debug events for saves and flushes. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger
}

var (
	configMu sync.Mutex
	configs  = make(map[string]Config)
)

// Configure sets the configuration entry for a namespace. Call it before the
// namespace is first used by a model or proxy.
func Configure(namespace string, cfg Config) {
	configMu.Lock()
	defer configMu.Unlock()
	configs[namespace] = cfg
}

func configFor(namespace string) (Config, bool) {
	configMu.Lock()
	defer configMu.Unlock()
	cfg, ok := configs[namespace]
	return cfg, ok
}
