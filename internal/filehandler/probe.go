package filehandler

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Probe routes a file to the metadata provider for its type.
func Probe(ctx context.Context, filePath string) (MediaMetadata, error) {
	ext := filepath.Ext(filePath)
	switch {
	case IsImage(ext):
		return ExtractImageMetadata(filePath)
	case IsVideo(ext):
		return ExtractVideoMetadata(ctx, filePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// ProbeAll extracts metadata for every path concurrently. The result is
// index-aligned with paths; an entry is nil when probing that file failed.
// Failures are logged, never returned: missing metadata does not make a
// picked file unusable.
func ProbeAll(ctx context.Context, paths []string) []MediaMetadata {
	out := make([]MediaMetadata, len(paths))
	if len(paths) == 0 {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range paths {
		g.Go(func() error {
			meta, err := Probe(gctx, p)
			if err != nil {
				log.Warn().Err(err).Str("path", p).Msg("Failed to extract metadata, continuing without it")
				return nil
			}
			out[i] = meta
			return nil
		})
	}
	_ = g.Wait()

	return out
}
