// Package fetch models the external bulk media retriever as a collaborator
// interface. The merge pipeline never invokes it; it exists so callers that
// pair context merging with media retrieval can depend on one contract.
package fetch

import "context"

// Fetcher retrieves one item's streams to a destination path. Typical
// implementations wrap an external download tool.
type Fetcher interface {
	Fetch(ctx context.Context, itemID, destPath string) error
}
