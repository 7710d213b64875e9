// Package manifest resolves a validated configuration into the Kubernetes
// objects for one RowCache deployment: the adapter deployment with its
// service and RBAC, the server stateful set, and the bundled consensus
// store when enabled.
//
// Rendering is a pure, single-pass function from configuration to objects.
// Container environments are built as name-keyed sets and only serialized
// to the positional form at the manifest boundary, so nothing downstream
// depends on ordinal positions. A configuration that fails validation
// renders nothing.
package manifest
