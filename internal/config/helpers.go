package config

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

// String returns a pointer to s, for building overrides outside this package.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building overrides outside this package.
func Bool(b bool) *bool { return &b }
