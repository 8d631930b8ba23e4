// Package tags owns the group-code tag primitive of the DXF wire format.
//
// Ownership boundary:
// - tag and value primitives
// - the static group code to wire kind table
// - the export sink contract written by the core
package tags
