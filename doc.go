/*
Package sdkgate wraps the alpha-quality openai-go SDK behind a stable
internal contract, so the rest of the system never depends on the SDK's
churning type surface.

The package implements the insulation layer through several key
abstractions:

  - Capability probe: a one-time, memoized check that the SDK exposes the
    surface this layer binds to, reported instead of raised
  - Client factory: memoized client handles keyed by configuration
    fingerprint, with explicit shutdown and failure-driven eviction
  - Error normalization: a total mapping from every SDK failure onto a
    fixed internal taxonomy with kind-derived retry hints
  - Request adaptation: internal request/response models translated to and
    from SDK calls, in blocking or concurrent execution modes
  - Streaming bridge: the SDK's chunk iterator converted into a lazy,
    forward-only event sequence with guaranteed resource release

# Basic Usage

A typical interaction probes the SDK once, acquires a handle, and executes
requests through it:

	report := openai.Probe()
	if !report.Available {
		// Handle missing or incompatible SDK
	}

	cfg, _ := sdkgate.NewConfig(sdkgate.WithAPIKey(key))
	handle, err := openai.DefaultFactory.Get(cfg)
	if err != nil {
		// Handle construction failure
	}

	resp, err := handle.Execute(ctx, sdkgate.Request{
		ID:        uuid.New(),
		Operation: sdkgate.OpChatCompletion,
		Model:     "gpt-4o-mini",
		Messages:  []sdkgate.Message{{Role: sdkgate.RoleUser, Content: "hi"}},
	})

Streaming responses deliver chunks through Response.Events in the exact
order the SDK produced them; a mid-stream failure arrives as a terminal
ErrorEvent after every chunk that was already delivered.

# Error Handling

Every failure crossing the package boundary is a *sdkgate.Error tagged
with one Kind from the internal taxonomy. Callers match on kinds and the
Retryable hint; retry policy itself lives outside this layer.
*/
package sdkgate
