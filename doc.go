// Package stone is a schema-driven data-type validation and serialization
// engine. A schema is a set of composite type descriptors (structs and tagged
// unions) composed from primitive and container validators. Runtime values are
// held in presence-tracking instances and converted losslessly between the
// in-memory form and a JSON-compatible wire form.
//
// Type descriptors are build-once and safe for unsynchronized concurrent
// reads. Instances are owned by a single writer at a time; concurrent reads
// are safe once mutation has stopped.
package stone
