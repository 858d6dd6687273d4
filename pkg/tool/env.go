package tool

import "strings"

// FilterEnv returns a copy of env with unset and empty entries dropped.
// Shells and installers treat an empty exported variable differently from an
// absent one, and templating layers upstream can leave behind entries like
// "TOKEN=" for values that were never resolved; dropping them keeps
// subprocesses from seeing unset-variable placeholders.
func FilterEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, entry := range env {
		eq := strings.IndexByte(entry, '=')
		if eq <= 0 {
			continue
		}
		if entry[eq+1:] == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// StringParam reads a string parameter, returning fallback when absent
func StringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return fallback
}

// BoolParam reads a boolean parameter, returning fallback when absent
func BoolParam(params map[string]any, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}
