package repository

import "context"

// TagRegistry answers whether a tag already exists on the hosting service.
type TagRegistry interface {
	RemoteTagExists(ctx context.Context, tag string) (bool, error)
}
