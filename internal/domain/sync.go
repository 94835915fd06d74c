package domain

// SyncVerdict is the outcome of comparing the local branch with its remote.
type SyncVerdict struct {
	InSync bool
	Branch string
	// Details holds the dirty paths and missing commits, one per line.
	Details string
}
