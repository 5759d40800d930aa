// Package manifest reads the package.json snapshot a build is computed from.
//
// Only the fields that drive entry and target resolution are retained. The
// "exports" field is decoded into a tagged tree of [Leaf] and [Branch] nodes
// so that the declaration order of condition keys survives decoding; map
// iteration order is never consulted. Values of the wrong shape (arrays,
// numbers, booleans) are kept as [Invalid] nodes and rejected later by the
// entry resolver, which knows the export path they belong to.
//
// Example usage:
//
//	m, err := manifest.Load(".")
//	if err != nil {
//	    return err
//	}
//	for _, key := range m.Exports.(*manifest.Branch).Keys {
//	    fmt.Println(key)
//	}
package manifest
