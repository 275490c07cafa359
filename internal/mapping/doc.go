// Package mapping provides the declarative field-unification tables, their
// YAML schema, the transform registry, and Unify, which applies a table to
// raw node records.
//
// A table is data: for one provider it says which native field name becomes
// which canonical field name, and optionally which named transform reshapes
// the value. Fields without a rule pass through untouched.
//
// # Schema Overview
//
//	version: "1"
//	providers:
//	  - name: [surge, surfboard]   # one table may serve several providers
//	    # Simplified 1:1 renames (highest priority)
//	    121:
//	      encrypt-method: cipher
//	      udp-relay: udp
//	    # Full rules, used when a transform is needed
//	    fields:
//	      - source: port
//	        transform: port         # target defaults to source
//	      - source: dns-server
//	        target: dns
//	        transform: list
//
// # Priority Order
//
// When a source key appears in both sections, the "121" rename wins and
// Validate reports the shadowed rule.
//
// # Transform Registry
//
// Transforms are referenced by name. DefaultRegistry provides string, int,
// port, bool, list and lower; callers may Register their own. Validate reports
// rules naming a transform the registry does not know, with suggestions.
package mapping
