// Package surge parses the positional/keyed proxy list format used by Surge
// and Surge-like clients.
//
// A node is one entry of the [Proxy] section:
//
//	HK 01 = ss, 1.2.3.4, 8388, encrypt-method=aes-128-gcm, password=secret, udp-relay=true
//
// Components without "=" are positional and fill type, server, port,
// username and password in that order. Keyed components keep their native
// names; the mapping stage renames them. WireGuard nodes pull their keys from
// a second section named by section-name.
package surge
