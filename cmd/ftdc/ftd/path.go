package ftd

import (
	"fmt"
	"strconv"
	"strings"
)

// ContainerPath addresses a node by the child index taken at every depth,
// starting from the root of the frame it is relative to.
type ContainerPath []int

// String renders the path the way local variable keys embed it: "0,2,1".
func (p ContainerPath) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Child returns a new path one level deeper.
func (p ContainerPath) Child(i int) ContainerPath {
	out := make(ContainerPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Join returns p followed by q, sharing memory with neither.
func (p ContainerPath) Join(q ContainerPath) ContainerPath {
	out := make(ContainerPath, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

func (p ContainerPath) Clone() ContainerPath {
	if p == nil {
		return nil
	}
	out := make(ContainerPath, len(p))
	copy(out, p)
	return out
}

func (p ContainerPath) Equal(q ContainerPath) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is a leading part of p.
func (p ContainerPath) HasPrefix(q ContainerPath) bool {
	return len(q) <= len(p) && p[:len(q)].Equal(q)
}

// ParseContainerPath is the inverse of String. The empty string is the root.
func ParseContainerPath(s string) (ContainerPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ContainerPath{}, nil
	}
	parts := strings.Split(s, ",")
	out := make(ContainerPath, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid container path %q: segment %q", s, part)
		}
		out[i] = n
	}
	return out, nil
}
