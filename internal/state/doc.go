// Package state holds the shared device snapshot the watch view renders.
//
// A background poller writes snapshots through Store.Update while the UI
// reads through Store.Snapshot; both sides get defensive copies so neither
// can mutate the other's view. Poll failures keep the previous device data
// and increment a consecutive-failure counter the UI uses to flag the cloud
// API as unreachable.
package state
