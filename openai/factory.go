package openai

import (
	"log/slog"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/opencodehq/sdkgate"
	"github.com/opencodehq/sdkgate/pkg/slogx"
)

const (
	// evictAfterFailures is how many consecutive transport failures inside
	// evictWindow invalidate a handle. Best-effort liveness recovery, not a
	// correctness requirement.
	evictAfterFailures = 3
	evictWindow        = 30 * time.Second
)

// Factory builds and memoizes client handles. Two Get calls with the same
// configuration fingerprint return the same *Handle; no second connection
// setup happens. Handles live until Shutdown or failure-driven eviction.
type Factory struct {
	handles *haxmap.Map[string, *Handle]
}

// DefaultFactory is the process-wide factory used by code that has no
// reason to isolate handle caches.
var DefaultFactory = NewFactory()

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{handles: haxmap.New[string, *Handle]()}
}

// Get returns the memoized handle for cfg, constructing it on first use.
// The handle's mode is fixed; asking for a different mode yields a
// different fingerprint and therefore a distinct handle. There is never a
// fallback between modes.
func (f *Factory) Get(cfg sdkgate.Config) (*Handle, error) {
	if report := Probe(); !report.Available {
		return nil, sdkgate.NewErrorf(sdkgate.KindProviderUnavailable, "sdk capability probe failed: %s", report)
	}
	if cfg.APIKey == "" {
		return nil, sdkgate.NewError(sdkgate.KindAuthenticationFailed, "api key is required")
	}

	fingerprint := cfg.Fingerprint()
	handle, loaded := f.handles.GetOrCompute(fingerprint, func() *Handle {
		return newHandle(f, fingerprint, cfg)
	})
	if handle == nil {
		f.handles.Del(fingerprint)
		return nil, sdkgate.NewError(sdkgate.KindProviderUnavailable, "sdk client construction failed")
	}
	if !loaded {
		slog.Debug("constructed client handle",
			slog.String("fingerprint", fingerprint),
			slogx.Stringer("mode", cfg.Mode))
	}
	return handle, nil
}

// GetFromMap is Get for configuration read as a flat key/value map.
// Unrecognized keys fail with KindInvalidRequest before any SDK
// construction is attempted.
func (f *Factory) GetFromMap(values map[string]string) (*Handle, error) {
	cfg, err := sdkgate.ConfigFromMap(values)
	if err != nil {
		return nil, err
	}
	return f.Get(cfg)
}

// Shutdown releases every held handle. The factory remains usable;
// subsequent Get calls reconstruct handles on demand.
func (f *Factory) Shutdown() {
	f.handles.ForEach(func(fingerprint string, _ *Handle) bool {
		f.handles.Del(fingerprint)
		return true
	})
	slog.Debug("client factory shut down")
}

// Len reports how many handles the factory currently holds.
func (f *Factory) Len() int {
	return int(f.handles.Len())
}

func (f *Factory) evict(fingerprint string) {
	f.handles.Del(fingerprint)
}

// Handle owns exactly one SDK client in a fixed execution mode. It is
// read-shared: concurrent callers may execute through it, but nothing
// mutates its configuration. Eviction is the only mutation and happens
// under the handle's lock, one writer per fingerprint.
type Handle struct {
	factory     *Factory
	fingerprint string
	cfg         sdkgate.Config
	client      *openai.Client

	mu           sync.Mutex
	failures     int
	firstFailure time.Time
}

func newHandle(f *Factory, fingerprint string, cfg sdkgate.Config) (handle *Handle) {
	// An alpha SDK constructor is not trusted not to panic; a construction
	// failure surfaces as ProviderUnavailable in Get.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("sdk client construction panicked", slog.Any("panic", r))
			handle = nil
		}
	}()

	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		options = append(options, option.WithOrganization(cfg.Organization))
	}
	if cfg.Timeout > 0 {
		options = append(options, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Handle{
		factory:     f,
		fingerprint: fingerprint,
		cfg:         cfg,
		client:      openai.NewClient(options...),
	}
}

// Mode reports the execution mode fixed at construction.
func (h *Handle) Mode() sdkgate.Mode { return h.cfg.Mode }

// Fingerprint identifies the configuration this handle was built from.
func (h *Handle) Fingerprint() string { return h.fingerprint }

// Sync returns the blocking view of the handle. Asking a sync view from
// an async handle is a caller error, not a fallback opportunity.
func (h *Handle) Sync() (sdkgate.Executor, error) {
	if h.cfg.Mode != sdkgate.ModeSync {
		return nil, sdkgate.NewErrorf(sdkgate.KindInvalidRequest, "handle %s is %s mode, not sync", h.fingerprint, h.cfg.Mode)
	}
	return h, nil
}

// Async returns the concurrent view of the handle.
func (h *Handle) Async() (sdkgate.AsyncExecutor, error) {
	if h.cfg.Mode != sdkgate.ModeAsync {
		return nil, sdkgate.NewErrorf(sdkgate.KindInvalidRequest, "handle %s is %s mode, not async", h.fingerprint, h.cfg.Mode)
	}
	return h, nil
}

// observe feeds the eviction policy: consecutive transport failures inside
// the window invalidate the handle so the next Get reconstructs it.
func (h *Handle) observe(err *sdkgate.Error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err == nil || err.Kind != sdkgate.KindConnectionFailed {
		h.failures = 0
		return
	}

	now := time.Now()
	if h.failures == 0 || now.Sub(h.firstFailure) > evictWindow {
		h.failures = 0
		h.firstFailure = now
	}
	h.failures++
	if h.failures >= evictAfterFailures {
		h.failures = 0
		h.factory.evict(h.fingerprint)
		slog.Warn("evicted client handle after repeated transport failures",
			slog.String("fingerprint", h.fingerprint),
			slogx.Error(err))
	}
}
