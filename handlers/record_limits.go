package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pocketbase/pocketbase/core"
)

// pocketbaseTextMax is the limit PocketBase applies to a text field with Max 0.
const pocketbaseTextMax = 5000

// oversizedField returns a message for the first text or JSON value on
// record that its collection would refuse as too long.
func oversizedField(record *core.Record) (string, bool) {
	for _, f := range record.Collection().Fields {
		switch field := f.(type) {
		case *core.TextField:
			if field.System {
				continue
			}
			limit := field.Max
			if limit == 0 {
				limit = pocketbaseTextMax
			}
			if utf8.RuneCountInString(record.GetString(field.Name)) > limit {
				return fmt.Sprintf("%s is longer than %d characters.", fieldLabel(field.Name), limit), true
			}
		case *core.JSONField:
			b, err := json.Marshal(record.Get(field.Name))
			if err == nil && int64(len(b)) > field.CalculateMaxBodySize() {
				return fmt.Sprintf("%s is too large to save.", fieldLabel(field.Name)), true
			}
		}
	}
	return "", false
}

// rejectOversized answers 422 with an error toast when record holds a value
// too long to save.
func rejectOversized(e *core.RequestEvent, record *core.Record) (bool, error) {
	msg, ok := oversizedField(record)
	if !ok {
		return false, nil
	}
	return true, ErrorToast(e, http.StatusUnprocessableEntity, msg)
}

func fieldLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
