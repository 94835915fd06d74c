package repository

import "context"

// noopTagRegistry is used when no GitHub token is configured.
type noopTagRegistry struct{}

// NewNoopTagRegistry returns a registry that never reports a conflict.
func NewNoopTagRegistry() TagRegistry {
	return noopTagRegistry{}
}

func (noopTagRegistry) RemoteTagExists(context.Context, string) (bool, error) {
	return false, nil
}
