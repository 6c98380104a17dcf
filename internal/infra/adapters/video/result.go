package video

// The provider's response shape has drifted across API revisions, so the
// result URL is located by trying known field paths in priority order. Keep
// the list here in one place: contract drift is a one-line fix.

type resultAccessor func(map[string]any) string

var resultURLAccessors = []resultAccessor{
	func(m map[string]any) string { return digString(m, "data", "video", "url") },
	func(m map[string]any) string { return digString(m, "video", "url") },
	func(m map[string]any) string { return digString(m, "videoUrl") },
}

// extractVideoURL returns the first non-empty match, or "".
func extractVideoURL(decoded map[string]any) string {
	for _, get := range resultURLAccessors {
		if url := get(decoded); url != "" {
			return url
		}
	}
	return ""
}

func digString(m map[string]any, path ...string) string {
	cur := any(m)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}
