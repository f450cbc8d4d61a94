// ABOUTME: Recoverable per-action diagnostics collected during action generation and application.
// ABOUTME: Defines Kind and Severity enums and the Diagnostic record returned alongside results.
package patch

import "fmt"

// Severity represents diagnostic severity level.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns a human-readable name for the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Kind classifies a recoverable condition. Every kind leaves the batch
// running: the offending action (or entry, or parameter) is dropped
// wholesale and the remaining work proceeds.
type Kind int

const (
	// KindUnresolvedNode means an action referenced a node id absent from the document.
	KindUnresolvedNode Kind = iota
	// KindIndexOutOfRange means a widget index exceeded the target value array.
	KindIndexOutOfRange
	// KindEntryLimit means entry-pair inputs exceeded the configured maximum.
	KindEntryLimit
	// KindTypeMismatch means an input value had the wrong shape for its parameter.
	KindTypeMismatch
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUnresolvedNode:
		return "unresolved_node"
	case KindIndexOutOfRange:
		return "index_out_of_range"
	case KindEntryLimit:
		return "entry_limit"
	case KindTypeMismatch:
		return "type_mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Diagnostic records one recoverable condition. Param names the mapping
// parameter the action came from; NodeID is the node involved, or 0 when
// the condition is not node-scoped.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Param    string
	NodeID   int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Kind, d.Message)
}
