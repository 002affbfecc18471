package batch

// Entry is the recorded result of one repository.
type Entry struct {
	Name   string
	OK     bool
	Detail string // failure detail, empty on success
}

// Succeeded records a successful repository.
func Succeeded(name string) Entry {
	return Entry{Name: name, OK: true}
}

// Failed records a failed repository with detail.
func Failed(name, detail string) Entry {
	return Entry{Name: name, Detail: detail}
}

// Outcome aggregates per-repository entries of one action.
//
// An Outcome is never modified in place: With and Merge return new values.
// Each name appears at most once; a later entry for a name replaces the
// earlier one, so a repository is never both succeeded and failed.
// The zero value is an empty Outcome.
type Outcome struct {
	entries []Entry
}

// NewOutcome builds an Outcome from entries in order.
func NewOutcome(entries ...Entry) Outcome {
	return Outcome{}.Merge(Outcome{entries: entries})
}

// With returns a copy of o with e recorded.
func (o Outcome) With(e Entry) Outcome {
	return o.Merge(Outcome{entries: []Entry{e}})
}

// Merge returns the union of o and other. Entries of other win.
// Names keep the position of their first appearance.
func (o Outcome) Merge(other Outcome) Outcome {
	merged := make([]Entry, 0, len(o.entries)+len(other.entries))
	index := make(map[string]int, cap(merged))

	for _, list := range [][]Entry{o.entries, other.entries} {
		for _, e := range list {
			if i, ok := index[e.Name]; ok {
				merged[i] = e
				continue
			}
			index[e.Name] = len(merged)
			merged = append(merged, e)
		}
	}

	return Outcome{entries: merged}
}

// Len returns the number of recorded repositories.
func (o Outcome) Len() int {
	return len(o.entries)
}

// Get returns the entry recorded for name.
func (o Outcome) Get(name string) (Entry, bool) {
	for _, e := range o.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Succeeded returns the names of the successful repositories.
func (o Outcome) Succeeded() []string {
	var names []string
	for _, e := range o.entries {
		if e.OK {
			names = append(names, e.Name)
		}
	}
	return names
}

// Failed returns the failed entries.
func (o Outcome) Failed() []Entry {
	var failed []Entry
	for _, e := range o.entries {
		if !e.OK {
			failed = append(failed, e)
		}
	}
	return failed
}

// FailedMap returns failure details keyed by repository name.
func (o Outcome) FailedMap() map[string]string {
	m := make(map[string]string)
	for _, e := range o.Failed() {
		m[e.Name] = e.Detail
	}
	return m
}

// HasFailures reports whether any repository failed.
func (o Outcome) HasFailures() bool {
	for _, e := range o.entries {
		if !e.OK {
			return true
		}
	}
	return false
}
