// Package all wires the built-in storage backends into the storage factory.
//
// The package exists purely for side effects: a blank import runs each
// backend's init function, which registers its factory with the storage
// package. Importing this package makes the following kinds available:
//
//   - "sqlite"   (scrub/internal/storage/sqlite)
//   - "postgres" (scrub/internal/storage/postgres)
//   - "csvdir"   (scrub/internal/storage/csvdir)
package all

import (
	_ "scrub/internal/storage/csvdir"
	_ "scrub/internal/storage/postgres"
	_ "scrub/internal/storage/sqlite"
)
