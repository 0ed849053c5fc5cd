package templates

func validateData(c Copy, data map[string]any) error {
	if len(c.Required) == 0 {
		return nil
	}
	missing := make([]string, 0)
	for _, field := range c.Required {
		if !hasField(data, field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return SchemaError{Type: string(c.Type), Missing: missing}
	}
	return nil
}

func hasField(data map[string]any, field string) bool {
	val, ok := data[field]
	if !ok || val == nil {
		return false
	}
	if s, isString := val.(string); isString {
		return s != ""
	}
	return true
}

func cloneData(input map[string]any) map[string]any {
	out := make(map[string]any, len(input)+1)
	for k, v := range input {
		out[k] = v
	}
	return out
}
