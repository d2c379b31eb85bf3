package mediameta

import (
	"github.com/simonhull/mediameta/internal/types"
)

// AudioInfo is an alias to types.AudioInfo.
// Re-exporting from internal/types to maintain public API.
type AudioInfo = types.AudioInfo

// VideoInfo is an alias to types.VideoInfo.
// Re-exporting from internal/types to maintain public API.
type VideoInfo = types.VideoInfo
