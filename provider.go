package sdkgate

import "context"

// Executor is the blocking variant of the provider capability set. Execute
// returns once the SDK round trip finished; for streaming requests the
// returned response carries a live event channel whose receives block per
// chunk.
type Executor interface {
	Execute(context.Context, Request) (*Response, error)
}

// AsyncExecutor is the concurrent variant of the same capability set.
// ExecuteAsync returns immediately; the future resolves to the response or
// a normalized error. Keeping the two variants as separate interfaces,
// selected once at handle acquisition, prevents accidental blocking calls
// from code written against the concurrent contract.
type AsyncExecutor interface {
	ExecuteAsync(context.Context, Request) Future[*Response]
}
