package surge

import "subio/internal/node"

// Canonical fields the fixup relies on.
const (
	fieldPluginOptsMode = "plugin-opts-mode"
	fieldUsername       = "username"
	fieldUUID           = "uuid"
)

// Fixup corrects unified Surge records where a rename table is not enough.
// It runs after unification and works on canonical field names.
//
//   - ss with plugin-opts-mode: plugin is obfs
//   - vmess: the positional username slot carries the UUID
func Fixup(rec *node.Record) *node.Record {
	switch rec.Type() {
	case "ss":
		if rec.Has(fieldPluginOptsMode) {
			rec.Set(FieldPlugin, "obfs")
		}

	case "vmess":
		if !rec.Has(fieldUUID) {
			rec.Rename(fieldUsername, fieldUUID)
		}
	}

	return rec
}
