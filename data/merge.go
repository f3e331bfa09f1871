package data

import (
	"reflect"

	"dario.cat/mergo"
)

// MergePatch merges a partial field patch into a content payload. Scalars are
// overwritten, nested objects merge recursively and arrays are replaced
// wholesale, never appended or unioned. The returned flag reports whether the
// payload actually changed so callers can skip useless writes.
func MergePatch(content JSONMap, patch map[string]any) (JSONMap, bool, error) {
	if len(patch) == 0 {
		return content, false, nil
	}

	merged := content.DeepCopy()
	if merged == nil {
		merged = make(JSONMap, len(patch))
	}

	if err := mergo.Merge(&merged, JSONMap(patch), mergo.WithOverride); err != nil {
		return content, false, err
	}

	changed := !reflect.DeepEqual(map[string]any(content), map[string]any(merged))
	return merged, changed, nil
}
