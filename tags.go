package mediameta

import (
	"github.com/simonhull/mediameta/internal/types"
)

// Tags is an alias to types.Tags.
// Re-exporting from internal/types to maintain public API.
type Tags = types.Tags
