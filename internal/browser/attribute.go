package browser

import "strings"

// booleanAttributes are the HTML attributes whose presence alone sets them
var booleanAttributes = map[string]struct{}{
	"allowfullscreen": {}, "async": {}, "autofocus": {}, "autoplay": {}, "checked": {},
	"controls": {}, "default": {}, "defer": {}, "disabled": {}, "formnovalidate": {},
	"hidden": {}, "inert": {}, "ismap": {}, "itemscope": {}, "loop": {}, "multiple": {},
	"muted": {}, "nomodule": {}, "novalidate": {}, "open": {}, "playsinline": {},
	"readonly": {}, "required": {}, "reversed": {}, "selected": {},
}

// AttributeValue normalizes a raw attribute read from the DOM.
// A present boolean attribute reads as "true" whatever its markup value
// (disabled, disabled="" and disabled="disabled" are all "true").
func AttributeValue(name string, raw *string) *string {
	if raw == nil {
		return nil
	}
	if _, ok := booleanAttributes[strings.ToLower(name)]; ok {
		v := "true"
		return &v
	}
	return raw
}
