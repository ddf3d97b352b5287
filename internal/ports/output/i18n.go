package output

// T renders user-facing text (section labels, feed messages) for a locale.
type T interface {
	// T renders the message identified by key for the given locale.
	// data feeds template placeholders and may be nil. Unknown keys come
	// back unchanged.
	T(locale, key string, data map[string]any) string
}
