package product

// ConfigurationError is spec.md §7's ConfigurationError: a forward
// reference to an undefined name, a duplicate name, or a name declared in
// more than one namespace.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Msg }
