// Package clash parses the structured YAML proxy list used by Clash and
// Clash-family clients (Clash.Meta, Stash).
//
//	proxies:
//	  - name: HK 01
//	    type: ss
//	    server: 1.2.3.4
//	    port: 8388
//	    cipher: aes-128-gcm
//	    plugin: obfs
//	    plugin-opts:
//	      mode: http
//
// Option groups ending in "-opts" are flattened one level into the
// canonical vocabulary, so plugin-opts.mode becomes plugin-opts-mode.
// Everything else is kept as decoded.
package clash
