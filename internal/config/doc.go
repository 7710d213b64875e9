// Package config defines the values schema for a RowCache deployment and
// the machinery for resolving operator-supplied overrides against it.
//
// The schema covers deployment identity, caching mode, the adapter and
// server components (image, service exposure, resources), and the bundled
// consensus store. Defaults live in the embedded values.yaml; overrides are
// supplied as additional values files or --set key=value pairs and merged
// over the defaults with override-wins-at-leaf semantics. Unknown override
// paths fail the load with an error naming the offending path.
package config
