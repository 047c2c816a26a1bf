package stores

// TrimHistory bounds a message history to at most max entries, dropping the
// oldest first. A non-positive max disables trimming.
func TrimHistory(msgs []Message, max int) []Message {
	if max <= 0 || len(msgs) <= max {
		return msgs
	}
	return msgs[len(msgs)-max:]
}
