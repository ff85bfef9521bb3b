package sdkgate

import (
	"slices"
	"strings"
)

// CapabilityReport records the outcome of probing an SDK for the surface
// this layer depends on. Reports are created once per process by the
// adapter's probe and are immutable afterwards; repeated probes return the
// cached instance.
type CapabilityReport struct {
	// Available is true when the SDK loaded and exposes every required
	// symbol.
	Available bool `json:"available"`

	// MissingSymbols lists the required symbols the probe could not find,
	// sorted and deduplicated. Empty when Available is true.
	MissingSymbols []string `json:"missing_symbols,omitempty"`

	// Version is the SDK module version when it could be determined.
	Version string `json:"version,omitempty"`

	// Diagnostic carries a human-readable reason when the SDK could not be
	// inspected at all.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Prevents unkeyed literals
	_ struct{}
}

// NewCapabilityReport normalizes the missing-symbol set (sorted, unique)
// and derives Available from it.
func NewCapabilityReport(version string, missing []string) *CapabilityReport {
	missing = slices.Clone(missing)
	slices.Sort(missing)
	missing = slices.Compact(missing)
	return &CapabilityReport{
		Available:      len(missing) == 0,
		MissingSymbols: missing,
		Version:        version,
	}
}

// Missing reports whether the named symbol was recorded as absent.
func (r *CapabilityReport) Missing(symbol string) bool {
	_, found := slices.BinarySearch(r.MissingSymbols, symbol)
	return found
}

func (r *CapabilityReport) String() string {
	if r.Available {
		if r.Version != "" {
			return "sdk available (" + r.Version + ")"
		}
		return "sdk available"
	}
	var sb strings.Builder
	sb.WriteString("sdk unavailable")
	if len(r.MissingSymbols) > 0 {
		sb.WriteString(": missing ")
		sb.WriteString(strings.Join(r.MissingSymbols, ", "))
	}
	if r.Diagnostic != "" {
		sb.WriteString(" (")
		sb.WriteString(r.Diagnostic)
		sb.WriteString(")")
	}
	return sb.String()
}
