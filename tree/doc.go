// Package tree provides the value representation of configuration.
//
// # Overview
//
// Every configuration value, at every stage of resolution, is a *Node. A
// Node is a tagged union: the Type field selects which of the other fields
// hold the value.
//
//   - BoolType, StringType, IntType, PathType, EnumType, NullType: scalars
//   - NoValueType: no value was given; distinct from null
//   - ErrorType: a value which failed to be read or resolved
//   - ReferenceType: a reference to another value by Path
//   - InterpolationType: text with embedded references
//   - ListType: an ordered list of nodes
//   - MappingType: ordered key-value pairs
//
// Each node carries a Trace recording where the value came from and a
// contexts.Set guarding the declaration. An empty set means unconditional.
//
// # Lifecycle
//
// A tree produced by reading one source is Owned. Merging several Owned
// trees gives a Merged tree, in which a key may repeat under different
// context sets. Refining for a target gives a Refined tree, in which keys
// are unique. Resolving references and dropping errors gives a Complete
// tree.
//
// # Immutability
//
// Nodes are never modified after construction. Operations return new trees
// which share unchanged subtrees with their inputs. The With* helpers
// return modified copies.
package tree
