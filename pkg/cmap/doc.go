// Package cmap provides a concurrent string-keyed sharded map.
//
// CredMesh uses it to track live credential handles by ID. Keys hash
// to one of a power-of-two number of shards, each guarded by its own
// RWMutex, so concurrent creations and closes on different credentials
// rarely contend.
package cmap
