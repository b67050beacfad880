package scanner

import (
	"regexp"
	"strings"

	"github.com/codewithboateng/metalint/internal/rules"
)

// namespacedRe matches names carrying a managed package namespace, e.g.
// "acme__Invoice__c". Local custom names ("Invoice__c") have one separator.
var namespacedRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*__[A-Za-z0-9_]+__[A-Za-z]+$`)

// IsManaged reports whether the unit at path comes from a managed package:
// either its name carries a namespace prefix, or it starts with one of the
// configured namespaces.
func IsManaged(path string, namespaces []string) bool {
	name := rules.NewMetadata(path, "", false).Name()
	if namespacedRe.MatchString(name) {
		return true
	}
	lower := strings.ToLower(name)
	for _, ns := range namespaces {
		ns = strings.ToLower(strings.TrimSpace(ns))
		if ns != "" && strings.HasPrefix(lower, ns+"__") {
			return true
		}
	}
	return false
}
