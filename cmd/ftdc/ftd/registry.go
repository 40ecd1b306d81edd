package ftd

import (
	"sort"
	"strings"
)

// RootContainer is the container name that always jumps back to the root of
// the current frame.
const RootContainer = "ftd#main"

// ContainerKey names an entry of the named-container registry.
//
// A bare key is a container id registered in the frame that produced it. A
// qualified key was merged up from a nested invocation and carries the id of
// the owning element (empty when the owner had none). Its string form is
// "owner#id", or "#id" without an owner.
type ContainerKey struct {
	Owner     string
	ID        string
	Qualified bool
}

func BareKey(id string) ContainerKey {
	return ContainerKey{ID: id}
}

func QualifiedKey(owner, id string) ContainerKey {
	return ContainerKey{Owner: owner, ID: id, Qualified: true}
}

// ParseContainerKey reads the string form of a key. The first '#' separates
// the owner from the id, so nested qualifications round-trip through String.
func ParseContainerKey(s string) ContainerKey {
	owner, id, ok := strings.Cut(s, "#")
	if !ok {
		return BareKey(s)
	}
	return QualifiedKey(owner, id)
}

func (k ContainerKey) String() string {
	if !k.Qualified {
		return k.ID
	}
	return k.Owner + "#" + k.ID
}

// Registry maps container keys to every path the key was produced at, in
// production order.
type Registry struct {
	paths map[ContainerKey][]ContainerPath
}

func NewRegistry() *Registry {
	return &Registry{paths: make(map[ContainerKey][]ContainerPath)}
}

// Add records one more instance of key. Earlier instances are kept.
func (r *Registry) Add(key ContainerKey, path ContainerPath) {
	r.paths[key] = append(r.paths[key], path.Clone())
}

// Lookup returns every recorded instance of key.
func (r *Registry) Lookup(key ContainerKey) ([]ContainerPath, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.paths[key]
	return p, ok
}

// First returns the first recorded instance of key. Jumps always land there,
// even when the key was produced several times.
func (r *Registry) First(key ContainerKey) (ContainerPath, bool) {
	p, ok := r.Lookup(key)
	if !ok || len(p) == 0 {
		return nil, false
	}
	return p[0], true
}

func (r *Registry) Has(key ContainerKey) bool {
	_, ok := r.Lookup(key)
	return ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.paths)
}

// Keys returns all keys ordered by their string form.
func (r *Registry) Keys() []ContainerKey {
	if r == nil {
		return nil
	}
	keys := make([]ContainerKey, 0, len(r.paths))
	for k := range r.paths {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Merge copies every entry of child into r with at prepended to its paths.
// With qualify set, keys are re-qualified under owner ("owner#key", or
// "#key" when owner is empty); otherwise they are kept as they are.
func (r *Registry) Merge(at ContainerPath, child *Registry, owner string, qualify bool) {
	for _, key := range child.Keys() {
		target := key
		if qualify {
			target = QualifiedKey(owner, key.String())
		}
		for _, p := range child.paths[key] {
			r.paths[target] = append(r.paths[target], at.Join(p))
		}
	}
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	if r == nil {
		return out
	}
	for k, v := range r.paths {
		for _, p := range v {
			out.paths[k] = append(out.paths[k], p.Clone())
		}
	}
	return out
}
