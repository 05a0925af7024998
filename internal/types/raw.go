package types

// Raw is an untrusted, partially shaped object decoded from model output.
// Only the normalizers turn a Raw into one of the validated records above.
type Raw map[string]any
