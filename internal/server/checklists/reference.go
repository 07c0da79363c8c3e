package checklists

import (
	"fmt"
	"strconv"
	"strings"
)

// Status is the value the platform stores on a checklist item.
type Status string

const (
	StatusPass Status = "yes"
	StatusFail Status = "no"
	StatusNA   Status = "n/a"
)

// Reference addresses an item as typed by the inspector: the 1-based
// section ordinal in server order, then the item position inside it.
type Reference struct {
	Section  int
	Position int
}

func (r Reference) String() string {
	return fmt.Sprintf("%d.%d", r.Section, r.Position)
}

// ParseReference parses "<section>.<position>". Surrounding whitespace is
// ignored; anything else that is not two integers joined by one dot fails
// with common.ErrMalformedReference.
func ParseReference(raw string) (Reference, error) {
	s := strings.TrimSpace(raw)

	sec, pos, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(pos, ".") {
		return Reference{}, malformed(raw)
	}

	n, err := strconv.Atoi(sec)
	if err != nil {
		return Reference{}, malformed(raw)
	}
	p, err := strconv.Atoi(pos)
	if err != nil {
		return Reference{}, malformed(raw)
	}

	return Reference{Section: n, Position: p}, nil
}

// StatusUpdate is one raw reference paired with the status to apply.
type StatusUpdate struct {
	Raw    string `json:"reference"`
	Status Status `json:"status"`
}

// ParseBuckets splits the three comma-separated form fields into updates,
// pass first, then fail, then n/a, keeping the typed order inside each.
// Entries are trimmed; empty ones are kept and skipped later.
func ParseBuckets(pass, fail, na string) []StatusUpdate {
	var out []StatusUpdate
	for _, b := range []struct {
		raw    string
		status Status
	}{
		{pass, StatusPass},
		{fail, StatusFail},
		{na, StatusNA},
	} {
		for _, entry := range strings.Split(b.raw, ",") {
			out = append(out, StatusUpdate{Raw: strings.TrimSpace(entry), Status: b.status})
		}
	}
	return out
}
