// Package normalisers turns source values into the text forms written to
// published documents: property values into strings and section rows into
// markdown.
package normalisers
