// Package federate implements the value-federate interface layer: typed
// input endpoints over a federate core, with lazy decode, unit conversion,
// change detection and callback dispatch.
//
// The core delivers raw self-describing byte buffers keyed by opaque
// handles and signals which handles have pending data after each
// time-advance. The Registry scans those handles, and each Input
// materialises its buffers into a tagged value: decode, multi-input
// reduction, unit bridge, change detection, store. Typed callbacks fire
// after the scan completes, in input registration order, strictly after
// the stored value they announce.
//
// Everything here is single-threaded by contract. The core may be
// concurrent internally, but once a time-advance returns, the pending set
// is frozen and the scan runs on the federate's own goroutine.
package federate
