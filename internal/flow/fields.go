package flow

// MapFields applies rename rules to intent fields. A field with a rule
// maps to the rule's target name; a field without one falls back to its
// source value unchanged.
func MapFields(fields, rules map[string]string) map[string]string {
	mapped := make(map[string]string, len(fields))
	for name, source := range fields {
		if target, ok := rules[name]; ok {
			mapped[name] = target
			continue
		}
		mapped[name] = source
	}
	return mapped
}
