package manifest

// A node of the conditional exports tree.
type Node interface {
	node()
}

// Terminal node holding a path string.
//
// A JSON null is decoded as a leaf with Null set, which excludes the subpath
// it appears under.
type Leaf struct {
	Path string // Path as written in the manifest (e.g., "./dist/index.mjs").
	Null bool   // Whether the value was a JSON null.
}

// Nested mapping of keys to nodes, in declaration order.
type Branch struct {
	Keys   []string        // Keys in the order they appear in the manifest.
	Values map[string]Node // Node for each key.
}

// Value of an unsupported JSON type found in the exports tree.
type Invalid struct {
	Kind string // JSON kind of the value ("array", "number", "boolean").
}

func (*Leaf) node()    {}
func (*Branch) node()  {}
func (*Invalid) node() {}

// Returns the node stored under key, or nil.
func (b *Branch) Get(key string) Node {
	return b.Values[key]
}

// Stores a node, appending the key when it is new. A repeated key keeps its
// first position and takes the later value, matching encoding/json.
func (b *Branch) set(key string, n Node) {
	if b.Values == nil {
		b.Values = make(map[string]Node)
	}
	if _, ok := b.Values[key]; !ok {
		b.Keys = append(b.Keys, key)
	}
	b.Values[key] = n
}

// Returns true when the key names a subpath (".", "./utils") rather than a
// condition.
func IsSubpath(key string) bool {
	return len(key) > 0 && key[0] == '.'
}
