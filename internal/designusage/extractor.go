package designusage

import (
	"sort"

	"github.com/tidwall/gjson"
)

// sideKeys are the print placements a custom garment can carry artwork on.
var sideKeys = []string{"front", "back"}

// idFields are the accepted spellings for a library design reference. Client
// builds have shipped both over time.
var idFields = []string{"library_design_id", "design_library_item_id"}

// ExtractDesignIDs walks a product's design document and returns the distinct
// library design ids it references, sorted ascending. The document comes from
// client-side editors and is treated as untrusted: malformed JSON, missing
// keys, or non-positive ids yield no references rather than an error. A
// document that is itself a JSON-encoded string is unwrapped once.
func ExtractDesignIDs(raw []byte) []int64 {
	if len(raw) == 0 {
		return nil
	}

	doc := gjson.ParseBytes(raw)
	if doc.Type == gjson.String {
		doc = gjson.Parse(doc.String())
	}
	if !doc.IsObject() {
		return nil
	}

	seen := map[int64]struct{}{}
	collect := func(node gjson.Result) {
		for _, field := range idFields {
			if id, ok := designID(node.Get(field)); ok {
				seen[id] = struct{}{}
				return
			}
		}
	}

	collect(doc)
	sides := doc.Get("sides")
	if sides.IsObject() {
		for _, key := range sideKeys {
			side := sides.Get(key)
			if side.IsObject() {
				collect(side)
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// designID coerces a JSON value into a positive integer id. Numeric strings
// are accepted, fractional and non-positive values are not.
func designID(value gjson.Result) (int64, bool) {
	switch value.Type {
	case gjson.Number:
		f := value.Float()
		id := int64(f)
		if f != float64(id) || id <= 0 {
			return 0, false
		}
		return id, true
	case gjson.String:
		parsed := gjson.Parse(value.String())
		if parsed.Type != gjson.Number {
			return 0, false
		}
		return designID(parsed)
	default:
		return 0, false
	}
}
