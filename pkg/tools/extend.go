package tools

import "reflect"

// Extend copies the keys of every source into dst and returns dst. A nil
// dst is allocated. Shallow mode assigns values as they are. Deep mode
// merges nested maps and slices recursively into copies, so dst never
// aliases a source container. A source that is dst itself is skipped.
func Extend(deep bool, dst map[string]any, srcs ...map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for _, src := range srcs {
		if src == nil || sameMap(dst, src) {
			continue
		}
		for k, v := range src {
			if !deep {
				dst[k] = v
				continue
			}
			dst[k] = extendValue(dst[k], v)
		}
	}
	return dst
}

func extendValue(current, v any) any {
	switch src := v.(type) {
	case map[string]any:
		target, ok := current.(map[string]any)
		if !ok {
			target = make(map[string]any, len(src))
		}
		return Extend(true, target, src)

	case []any:
		target, ok := current.([]any)
		if !ok {
			target = nil
		}
		merged := make([]any, max(len(target), len(src)))
		copy(merged, target)
		for i, item := range src {
			merged[i] = extendValue(merged[i], item)
		}
		return merged

	default:
		return v
	}
}

func sameMap(a, b map[string]any) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
