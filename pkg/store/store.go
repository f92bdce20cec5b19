// Package store persists named design documents in a catalog.
//
// Two backends are provided: [MongoStore] for shared deployments and
// [MemStore] for tests and single-process usage. Both implement [Store]
// and treat the design name as the catalog key; storing a design under
// an existing name replaces it.
package store

import (
	"context"
	"time"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/errors"
)

// Entry describes a catalog entry without its tree.
type Entry struct {
	Name      string    `json:"name" bson:"name"`
	Tech      string    `json:"tech,omitempty" bson:"tech,omitempty"`
	Modules   int       `json:"modules" bson:"modules"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Store is a named design catalog.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores a design under its name, replacing any existing entry.
	// Designs without a name are rejected.
	Put(ctx context.Context, d *design.Design) error

	// Get returns the design stored under name. A missing entry yields
	// an error with code [errors.ErrCodeDesignNotFound].
	Get(ctx context.Context, name string) (*design.Design, error)

	// List returns catalog entries sorted by name.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the entry under name. Deleting a missing entry
	// yields an error with code [errors.ErrCodeDesignNotFound].
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// validate checks a design before storing it.
func validate(d *design.Design) error {
	if d == nil || d.Top == nil {
		return errors.New(errors.ErrCodeInvalidDesign, "design has no top module")
	}
	return errors.ValidateDesignName(d.Name)
}
