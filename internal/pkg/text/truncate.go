package text

// Truncate shortens s to max bytes and appends an ellipsis when it cuts.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
