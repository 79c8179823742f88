package semanticmap

// reserved field names a projected view result may carry; these drive
// dispatch and are never themselves stored as an Event/Entity field.
const (
	fieldEventKind   = "event_kind"
	fieldEventAction = "event_action"
	fieldTimestamp   = "timestamp"
	fieldEntityType  = "entity_type"
)

// popString removes key from fields and returns its string value, if any.
func popString(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok {
		return "", false
	}
	delete(fields, key)
	s, ok := v.(string)
	return s, ok
}

// popTimestamp removes the timestamp field and returns it as
// milliseconds, defaulting to 0 (the documented "missing" sentinel) when
// absent or unparseable.
func popTimestamp(fields map[string]any) int64 {
	v, ok := fields[fieldTimestamp]
	if !ok {
		return 0
	}
	delete(fields, fieldTimestamp)

	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}
