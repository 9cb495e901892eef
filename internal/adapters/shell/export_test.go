package shell

// Internals exported for white-box tests.
var (
	ResolveEnvironment = resolveEnvironment
	LookPath           = lookPath
)
