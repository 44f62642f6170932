package model

// Digest is lantern's output type: the ordered record sequence for one log
// plus the classification context that produced it.
type Digest struct {
	Records        []Record
	HighlightWords []string          // effective keyword list after filter narrowing
	ObjRef         map[string]string // merged object-reference record, if any
	TotalLines     int               // line count after truncation (truncation preserves it)
	ElidedBytes    int               // bytes removed by the truncator, 0 if untouched
}

// FilterSet selects how lines are matched. An empty string disables a filter.
// UID, Namespace and ContainerID are structural: any of them being set routes
// classification through object-reference extraction.
type FilterSet struct {
	Pod         string
	UID         string
	Namespace   string
	ContainerID string
}

// Structural reports whether any structural filter is enabled.
func (f FilterSet) Structural() bool {
	return f.UID != "" || f.Namespace != "" || f.ContainerID != ""
}
