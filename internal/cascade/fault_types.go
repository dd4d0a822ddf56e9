package cascade

import (
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// FaultTypeList is the static, ordered set of fault types.
type FaultTypeList struct {
	values []string
}

// NewFaultTypeList keeps the first occurrence of each distinct, non-blank value.
func NewFaultTypeList(values []string) *FaultTypeList {
	seen := set.New[string](len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || !seen.Insert(v) {
			continue
		}
		out = append(out, v)
	}
	return &FaultTypeList{values: out}
}

// Values returns a copy of the fault types in load order.
func (l *FaultTypeList) Values() []string {
	if l == nil {
		return []string{}
	}
	out := make([]string, len(l.values))
	copy(out, l.values)
	return out
}

// Len returns the number of distinct fault types.
func (l *FaultTypeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.values)
}
