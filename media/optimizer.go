package media

import (
	"fmt"
	"log"
	"os"

	"github.com/disintegration/imaging"
)

// optimize re-encodes a stored upload in place: decode, constrain to the
// pipeline's bounding box preserving aspect ratio (never enlarging), JPEG
// re-encode at the configured quality. The result is written to a temp file
// and renamed over the original so a failure at any point leaves the stored
// upload untouched. The filename (and so the logical identity) never changes,
// even when the contained format does.
func (p *Pipeline) optimize(filename string) error {
	fullPath, err := p.store.FullPath(filename)
	if err != nil {
		return err
	}

	img, err := imaging.Open(fullPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	fitted := imaging.Fit(img, p.maxSize, p.maxSize, imaging.Lanczos)

	tmpPath := fullPath + ".optimized"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filename, err)
	}

	err = imaging.Encode(tmpFile, fitted, imaging.JPEG, imaging.JPEGQuality(p.quality))
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode optimized %s: %w", filename, err)
	}

	origInfo, statErr := os.Stat(fullPath)
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s with optimized copy: %w", filename, err)
	}

	if statErr == nil {
		if newInfo, err := os.Stat(fullPath); err == nil {
			log.Printf("media.optimizer: Optimized %s: %d -> %d bytes", filename, origInfo.Size(), newInfo.Size())
		}
	}
	return nil
}
