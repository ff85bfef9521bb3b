// Package openai adapts the alpha openai-go SDK to the sdkgate contract.
// It owns the only code in the module that touches SDK types: the
// capability probe, the memoizing client factory, the error normalizer,
// the request adapter, and the streaming bridge. Everything it returns or
// emits is expressed in sdkgate types.
package openai
