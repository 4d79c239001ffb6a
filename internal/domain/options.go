package domain

// CommonOptions contains shared options for loading and dispatch.
type CommonOptions struct {
	Verbose bool
	DryRun  bool
	Force   bool
}
