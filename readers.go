package mediameta

// Every reader registers itself with internal/registry from init.
import (
	_ "github.com/simonhull/mediameta/internal/asf"
	_ "github.com/simonhull/mediameta/internal/flac"
	_ "github.com/simonhull/mediameta/internal/mp3"
	_ "github.com/simonhull/mediameta/internal/mpeg"
	_ "github.com/simonhull/mediameta/internal/ogg"
	_ "github.com/simonhull/mediameta/internal/quicktime"
	_ "github.com/simonhull/mediameta/internal/riff"
)
