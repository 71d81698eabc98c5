// Package domain contains the core data structures of the navigation
// lifecycle: the per-navigation instruction tree, the error taxonomy, and
// the lifecycle event types. It has no dependencies on the engine or on any
// adapter, so collaborator implementations can share it freely.
package domain
