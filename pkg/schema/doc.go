/*
Package schema provides declarative validation for plain decoded data
(maps produced by encoding/json).

A Schema maps field names to Type validators; nested objects and slices
compose, and every failure is collected into a single AggregateError
carrying full field paths. The engine uses this to reject malformed
conversation snapshots with one error that names every offending field.
*/
package schema
