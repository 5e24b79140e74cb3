package runtimes

import (
	"strings"
	"time"
	"unicode"
)

// SupportStatus classifies a runtime's standing with AWS.
type SupportStatus string

const (
	StatusSupported  SupportStatus = "supported"
	StatusDeprecated SupportStatus = "deprecated"
	StatusCustom     SupportStatus = "custom"
	StatusUnknown    SupportStatus = "unknown"
)

// Entry is the classification result for a single runtime identifier.
type Entry struct {
	Runtime      string
	Language     string
	Version      string
	Status       SupportStatus
	EndOfSupport *time.Time
}

// Registry resolves runtime identifiers against a reference table.
// The table and clock are injected so tests can pin both.
type Registry struct {
	table map[string]TableEntry
	now   func() time.Time
}

// NewRegistry creates a registry over the given table. A nil now
// defaults to time.Now.
func NewRegistry(table map[string]TableEntry, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{table: table, now: now}
}

// Default returns a registry over the shipped runtime table.
func Default() *Registry {
	return NewRegistry(DefaultTable, time.Now)
}

// runtimeFamilies is the ordered decomposition table for identifiers
// missing from the reference table. Order matters: dotnetcore must be
// tried before dotnet, nodejs before go.
var runtimeFamilies = []struct {
	prefix   string
	language string
}{
	{"python", "Python"},
	{"nodejs", "Node.js"},
	{"java", "Java"},
	{"dotnetcore", ".NET Core"},
	{"dotnet", ".NET"},
	{"ruby", "Ruby"},
	{"go", "Go"},
}

// Classify resolves a runtime identifier to language, version, and
// support status. It never fails: identifiers the table does not know
// degrade to StatusUnknown so a scan survives runtimes introduced
// after the table was last refreshed. An empty identifier (container
// image packaged functions) classifies as Unknown.
func (r *Registry) Classify(runtime string) Entry {
	if runtime == "" {
		return Entry{Language: "Unknown", Version: "Unknown", Status: StatusUnknown}
	}

	if te, ok := r.table[runtime]; ok {
		e := Entry{Runtime: runtime, Language: te.Language, Version: te.Version}
		if strings.HasPrefix(runtime, "provided") {
			e.Status = StatusCustom
			return e
		}
		e.Status = StatusSupported
		if te.EndOfSupport != "" {
			if eol, err := time.Parse("2006-01-02", te.EndOfSupport); err == nil {
				e.EndOfSupport = &eol
				if !r.now().Before(eol) {
					e.Status = StatusDeprecated
				}
			}
		}
		return e
	}

	if strings.HasPrefix(runtime, "provided") {
		version := strings.TrimPrefix(strings.TrimPrefix(runtime, "provided"), ".")
		if version == "" {
			version = "Provided"
		}
		return Entry{Runtime: runtime, Language: "Custom Runtime", Version: version, Status: StatusCustom}
	}

	return decompose(runtime)
}

// decompose splits an unrecognized identifier into a language token
// and a version token: known family prefixes first, then a generic
// split at the alphabetic/numeric boundary.
func decompose(runtime string) Entry {
	e := Entry{Runtime: runtime, Language: "Unknown", Version: "Unknown", Status: StatusUnknown}

	for _, f := range runtimeFamilies {
		rest := strings.TrimPrefix(runtime, f.prefix)
		if rest == runtime || rest == "" || !unicode.IsDigit(rune(rest[0])) {
			continue
		}
		e.Language = f.language
		e.Version = rest
		return e
	}

	if i := strings.IndexFunc(runtime, unicode.IsDigit); i > 0 {
		e.Language = strings.ToUpper(runtime[:1]) + runtime[1:i]
		e.Version = runtime[i:]
	}
	return e
}
