package processor

import (
	"strings"

	"github.com/spf13/cast"
)

// FilterValues expands text filter values, as typed on a command line or in
// a query string, to the readings a property may hold: the text itself and
// its number or boolean when it parses as one. So "2" matches "2" and 2.
func FilterValues(raw []string) []interface{} {
	out := make([]interface{}, 0, len(raw)*2)
	for _, v := range raw {
		out = append(out, v)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if f, err := cast.ToFloat64E(v); err == nil {
			out = append(out, f)
		} else if b, err := cast.ToBoolE(v); err == nil {
			out = append(out, b)
		}
	}
	return out
}
