package markdown

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/markview/pkg/hast"
	"github.com/vango-dev/markview/pkg/vdom"
)

// Attributes converts HAST properties to HTML attributes. List values are
// space-joined, true becomes a bare boolean attribute (or an empty value
// for non-boolean attributes), and false, nil and non-plain values are
// dropped. The position and data keys never become attributes.
func Attributes(props hast.Properties) vdom.Props {
	if len(props) == 0 {
		return nil
	}
	out := make(vdom.Props, len(props))
	for k, v := range props {
		if k == hast.PositionKey || k == hast.DataKey {
			continue
		}
		name := hast.AttributeName(k)
		switch tv := v.(type) {
		case nil:
		case bool:
			switch {
			case !tv:
			case hast.IsBooleanAttribute(name):
				out[name] = true
			default:
				out[name] = ""
			}
		case string:
			out[name] = tv
		case []string:
			out[name] = strings.Join(tv, " ")
		case []any:
			parts := make([]string, 0, len(tv))
			for _, e := range tv {
				if s, ok := scalarString(e); ok {
					parts = append(parts, s)
				}
			}
			out[name] = strings.Join(parts, " ")
		case map[string]any:
			if name == "style" {
				out[name] = styleString(tv)
			}
		default:
			if s, ok := scalarString(v); ok {
				out[name] = s
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch tv := v.(type) {
	case string:
		return tv, true
	case bool:
		return strconv.FormatBool(tv), true
	case int:
		return strconv.Itoa(tv), true
	case int64:
		return strconv.FormatInt(tv, 10), true
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(tv), 'f', -1, 32), true
	}
	return "", false
}

// styleString renders a style object as CSS declarations in key order.
func styleString(style map[string]any) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		s, ok := scalarString(style[k])
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s:%s;", k, s)
	}
	return b.String()
}
