// Package vars implements the three-tier variable store of a build.
//
// Variables live in a fixed, a global and a local tier. Names are
// case-insensitive. References are written %Name% and are expanded
// recursively by [Store.Expand] in the order set by [Precedence].
package vars
