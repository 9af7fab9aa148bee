// Package repository declares a contract whose proxy is generated into the
// external test package.
package repository

import (
	"context"

	"github.com/toejough/improxy/async"
)

// Item is a stored record.
type Item struct {
	ID   string
	Tags []string
}

// Reader looks items up.
type Reader interface {
	Get(ctx context.Context, id string) (Item, error)
}

// Repository stores items.
type Repository interface {
	Reader
	Put(ctx context.Context, item Item) *async.Task
	Tag(id string, tags ...string) int
	Count(ctx context.Context) *async.Future[int]
}
