package openai

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/go-openapi/swag"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/opencodehq/sdkgate"
)

// sdkModulePath is the module whose version the probe reports.
const sdkModulePath = "github.com/openai/openai-go"

var (
	probeOnce   sync.Once
	probeReport *sdkgate.CapabilityReport
)

// Probe verifies once per process that the SDK exposes the surface this
// adapter binds to, and caches the resulting report. It never panics and
// never short-circuits: every missing symbol is collected so the report
// is exhaustive. Repeated calls return the same instance.
func Probe() *sdkgate.CapabilityReport {
	probeOnce.Do(func() {
		probeReport = probe()
	})
	return probeReport
}

func probe() (report *sdkgate.CapabilityReport) {
	// The alpha SDK restructures between versions; constructing the probe
	// surface must not take the process down.
	defer func() {
		if r := recover(); r != nil {
			report = &sdkgate.CapabilityReport{
				Available:      false,
				MissingSymbols: requiredSymbolNames(),
				Version:        sdkVersion(),
				Diagnostic:     fmt.Sprintf("sdk surface inspection panicked: %v", r),
			}
		}
	}()

	missing := inspect(sdkSurface())
	return sdkgate.NewCapabilityReport(sdkVersion(), missing)
}

// surface describes one required SDK symbol and the methods it must have.
type surface struct {
	symbol  string
	value   any
	methods []string
}

func sdkSurface() []surface {
	client := openai.NewClient(option.WithAPIKey("capability-probe"))
	var stream *ssestream.Stream[openai.ChatCompletionChunk]
	var sdkErr error = &openai.Error{}

	checks := []surface{
		{symbol: "openai.Client", value: client},
		{symbol: "openai.Client.Chat.Completions", methods: []string{"New", "NewStreaming"}},
		{symbol: "openai.Client.Embeddings", methods: []string{"New"}},
		{symbol: "openai.Error", value: sdkErr},
		{symbol: "ssestream.Stream", value: stream, methods: []string{"Next", "Current", "Err", "Close"}},
		{symbol: "openai.ChatCompletionAccumulator", value: &openai.ChatCompletionAccumulator{}, methods: []string{"AddChunk"}},
	}
	if client != nil && client.Chat != nil {
		checks[1].value = client.Chat.Completions
	}
	if client != nil {
		checks[2].value = client.Embeddings
	}
	return checks
}

// requiredSymbols is kept static so the panic-recovery path can report an
// exhaustive missing set without touching the SDK again.
var requiredSymbols = []string{
	"openai.ChatCompletionAccumulator",
	"openai.Client",
	"openai.Client.Chat.Completions",
	"openai.Client.Embeddings",
	"openai.Error",
	"ssestream.Stream",
}

func requiredSymbolNames() []string {
	return slices.Clone(requiredSymbols)
}

// inspect checks each surface entry structurally: the symbol must resolve
// to a value and expose every listed method. Method lookups happen on the
// type, so typed-nil values still pass when the type carries the method
// set.
func inspect(surfaces []surface) []string {
	var missing []string
	record := func(name string) {
		if !swag.ContainsStrings(missing, name) {
			missing = append(missing, name)
		}
	}

	for _, s := range surfaces {
		typ := reflect.TypeOf(s.value)
		if typ == nil || isUntypedNil(s.value, typ) {
			record(s.symbol)
			continue
		}
		for _, method := range s.methods {
			if _, ok := typ.MethodByName(method); !ok {
				record(s.symbol + "." + method)
			}
		}
	}
	return missing
}

func isUntypedNil(value any, typ reflect.Type) bool {
	if typ.Kind() != reflect.Pointer && typ.Kind() != reflect.Interface {
		return false
	}
	v := reflect.ValueOf(value)
	// A nil pointer is acceptable when only the method set matters; a nil
	// pointer with no required methods means the symbol did not resolve.
	return v.IsNil() && typ.NumMethod() == 0
}

// sdkVersion reads the SDK module version from build info. Empty when the
// binary was built without module information.
func sdkVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, dep := range info.Deps {
		if dep.Path == sdkModulePath {
			return dep.Version
		}
	}
	return ""
}
