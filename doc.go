/*
Package formix is a terminal JSON value editor driven by a schema known only
at runtime.

Given a JSON Schema-like description (a local schema file or a component
schema pulled from an OpenAPI document), it renders the current value either
as a structured field-by-field form or as raw JSON text, keeps both
representations synchronized, and reports every change to the owning caller.
Raw edits are parsed on a short quiescence window so mid-typing states never
surface errors; explicit actions (format, mode switch) validate eagerly.

The editing core lives in internal/editor; internal/schema handles schema
parsing and OpenAPI conversion; internal/jsonval provides copy-on-write path
updates over decoded JSON values.
*/
package formix
