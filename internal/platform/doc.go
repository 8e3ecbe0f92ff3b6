// Package platform models the real object graph that shadows stand in for.
//
// The platform's own classes are opaque to the rest of shade. All the core
// needs from a real object is its platform type name (Object) and, for the
// field bridge only, a friend-level view of its internal state (Internals).
//
// Real objects are handled by identity. Every Object passed to the linker
// must be a pointer so that two value-equal objects never collapse into one
// link.
package platform
