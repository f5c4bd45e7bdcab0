// Package rt implements a reference-counted dynamic object runtime.
//
// This package contains:
//   - NaN-boxed value representation
//   - Registry-backed heap objects with explicit reference counts
//   - Attribute, item, call, comparison, and hashing protocols
//   - The error taxonomy shared with the handle layer
//
// The runtime is the concrete host behind the handle package's Bridge
// interface. Small integers, floats, and the nil/true/false specials are
// immediates and are not reference counted; everything else lives in the
// runtime's object registry and is released when its count drops to zero.
package rt
