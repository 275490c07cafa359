package clash

import "subio/internal/node"

const fieldPlugin = "plugin"

// Fixup corrects unified Clash records. The obfs plugin is spelled
// obfs-local by some exporters; both name the same plugin.
func Fixup(rec *node.Record) *node.Record {
	if rec.Type() == "ss" && rec.String(fieldPlugin) == "obfs-local" {
		rec.Set(fieldPlugin, "obfs")
	}

	return rec
}
