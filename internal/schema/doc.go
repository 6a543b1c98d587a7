// Package schema normalizes OpenAPI-style schema objects: it resolves
// `#/`-rooted reference pointers against the owning document and flattens
// nested type trees into the canonical SchemaNode representation used for
// storage and diffing.
package schema
