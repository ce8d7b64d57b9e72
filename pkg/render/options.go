package render

// Options carry per-request data renderers can use without mutating the
// document itself.
type Options struct {
	// Status is the transport status the document is sent with. Page
	// renderers use it to style error responses; byte-for-byte formats
	// ignore it.
	Status int
	// FieldErrors surfaces server-side validation feedback keyed by
	// template field name, typically produced by MapErrorPayload. Page
	// renderers attach the messages to the matching controls.
	FieldErrors map[string][]string
	// FormErrors are messages that do not belong to a single field.
	FormErrors []string
	// Hidden adds hidden inputs to every rendered form, e.g. a CSRF token.
	// Names collide by last write; rendering order is sorted.
	Hidden map[string]string
}
