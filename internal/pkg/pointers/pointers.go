package pointers

// Ptr returns a pointer to v. Handy for the optional card attributes.
func Ptr[T any](v T) *T { return &v }
