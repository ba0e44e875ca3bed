// Package ir provides the dynamic value representation used by the diff,
// patch, eval and migrate packages.
//
// # Overview
//
// A Value is a schema-agnostic tree: records with ordered, uniquely named
// fields, variants with exactly one active case, ordered sequences, ordered
// maps with structurally unique keys, primitives, and memoizing lazy cells.
// All values are immutable once built; every operation in this module
// allocates new result trees and never mutates its inputs.
//
// The ir works as a recursive tagged union, where payloads are placed in
// fields depending on the value kind. Matching on Kind is exhaustive
// everywhere; an unknown kind is a programming error, not an input error.
//
// # Optics
//
// An Optic is an immutable path addressing one or more locations inside a
// Value. Optics are evaluated left to right; fan-out nodes (Elements,
// MapKeys, MapValues) turn one addressed value into many. A node that does
// not match the actual shape of the value is a typed navigation failure,
// never a crash.
//
// # Creating values
//
// Use constructor functions:
//
//	name := ir.FromString("Alice")
//	age := ir.FromInt32(30)
//	person := ir.Record(
//		ir.Field{Name: "name", Value: name},
//		ir.Field{Name: "age", Value: age},
//	)
package ir
