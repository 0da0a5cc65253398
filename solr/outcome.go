package solr

// Outcome reports what a mutating call did.
type Outcome int

const (
	// Unchanged means the call was a defined no-op: the desired state already
	// held, or the core was in a lifecycle state where the call does nothing.
	Unchanged Outcome = iota
	// Applied means a mutation was sent and the affected caches invalidated.
	Applied
	// NotFound means the target did not exist; nothing was sent.
	NotFound
	// UnknownType means the element or resource type is not registered;
	// nothing was sent.
	UnknownType
	// Invalid means the input was malformed; nothing was sent.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Applied:
		return "applied"
	case NotFound:
		return "not-found"
	case UnknownType:
		return "unknown-type"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}
