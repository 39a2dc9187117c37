// Package feature defines the catalog of optional language features.
//
// This package contains metadata types only. The catalog is immutable once
// built; every other internal package reads it and none writes to it.
//
// Key constraints:
//   - Feature names are unique within a catalog
//   - Baseline and experimental features carry no threshold mode
//   - Upcoming features always carry a threshold mode
package feature
