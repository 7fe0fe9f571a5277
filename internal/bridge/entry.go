package bridge

// Entry is a decoded contract lookup body. Only a few keys matter to the
// caller so the rest of the object is kept opaque.
type Entry map[string]any

// Found reports whether the entry carries a truthy "contrato" field.
func (e Entry) Found() bool {
	return e != nil && truthy(e["contrato"])
}

// Phones returns how many phone numbers the entry lists.
func (e Entry) Phones() int {
	if phones, ok := e["telefones"].([]any); ok {
		return len(phones)
	}
	return 0
}

// unwrap returns the record itself. The bridge answers with
// {"ok":true,"found":{...}}; a bare record is accepted too.
func (e Entry) unwrap() Entry {
	if e.Found() {
		return e
	}
	if inner, ok := e["found"].(map[string]any); ok {
		return Entry(inner)
	}
	return e
}

// truthy applies the usual dynamic-language notion of truth to a decoded
// JSON value.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
