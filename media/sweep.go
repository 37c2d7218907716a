package media

import (
	"log"
)

// SweepOrphans deletes stored blobs that no photo row references. Insert
// failures clean up their own blob inline; the sweep covers crash windows
// between a save and its insert. Returns the number of blobs removed.
func SweepOrphans(store Store, knownFilenames []string) (int, error) {
	known := make(map[string]struct{}, len(knownFilenames))
	for _, name := range knownFilenames {
		known[name] = struct{}{}
	}

	stored, err := store.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range stored {
		if _, ok := known[name]; ok {
			continue
		}
		if err := store.Delete(name); err != nil {
			log.Printf("media.sweep: failed to remove orphan %s: %v", name, err)
			continue
		}
		log.Printf("media.sweep: removed orphaned upload %s", name)
		removed++
	}
	return removed, nil
}
