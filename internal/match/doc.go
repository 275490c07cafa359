// Package match provides name-similarity helpers used to suggest the
// intended spelling of misspelled transform and field names.
package match
