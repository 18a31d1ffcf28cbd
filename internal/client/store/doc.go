// Package store keeps a local mirror of one remote collection and applies
// create, delete and update operations to it optimistically, rolling the
// mirror back when the backend rejects a write.
package store
