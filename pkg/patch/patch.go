// Package patch layers changes onto parsed documents using JSON merge patches (RFC 7386)
// and JSON patches (RFC 6902).
package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/Azure/bulba/pkg/document"
)

// Merge returns base with overlay merged on top of it. Objects merge recursively, any other
// overlay value replaces the base value, and a null in the overlay removes the key.
// Neither input is modified.
func Merge(base, overlay *document.Object) (*document.Object, error) {
	basejson, err := base.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding base: %w", err)
	}
	overlayjson, err := overlay.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding overlay: %w", err)
	}

	merged, err := jsonpatch.MergePatch(basejson, overlayjson)
	if err != nil {
		return nil, fmt.Errorf("merging: %w", err)
	}
	return document.FromJSON(merged)
}

// Apply applies a JSON patch, given as its JSON encoding, to doc. doc is not modified.
func Apply(doc *document.Object, ops []byte) (*document.Object, error) {
	p, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}

	docjson, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	patchedjson, err := p.Apply(docjson)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	return document.FromJSON(patchedjson)
}
