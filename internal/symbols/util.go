package symbols

import "sort"

func sortStrings(s []string) { sort.Strings(s) }

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
