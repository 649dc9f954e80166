package access

import (
	"path"
	"strings"
)

type Class int

const (
	// ClassInfra routes are never intercepted.
	ClassInfra Class = iota
	// ClassPublic routes are reachable with or without a session.
	ClassPublic
	// ClassProtected routes need a verified session and a policy grant.
	ClassProtected
)

func (c Class) String() string {
	switch c {
	case ClassInfra:
		return "infra"
	case ClassPublic:
		return "public"
	default:
		return "protected"
	}
}

var infraPrefixes = []string{"/api", "/static", "/favicon.ico", "/health", "/metrics"}

// The unauthorized page is where denied sessions land; gating it would
// bounce them back to itself.
var infraPages = map[string]struct{}{
	"/unauthorized": {},
}

var assetExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".css": {}, ".js": {},
	".map": {}, ".ico": {}, ".woff": {}, ".woff2": {}, ".webp": {},
}

var publicRoutes = map[string]struct{}{
	"/":        {},
	"/about":   {},
	"/contact": {},
	"/login":   {},
}

func PublicRoutes() []string {
	return []string{"/", "/about", "/contact", "/login"}
}

// Classify places a request path in exactly one class. Public routes match
// exactly; infra routes match by prefix or asset extension.
func Classify(p string) Class {
	for _, prefix := range infraPrefixes {
		if strings.HasPrefix(p, prefix) {
			return ClassInfra
		}
	}
	if _, ok := infraPages[p]; ok {
		return ClassInfra
	}
	if _, ok := assetExtensions[strings.ToLower(path.Ext(p))]; ok {
		return ClassInfra
	}
	if _, ok := publicRoutes[p]; ok {
		return ClassPublic
	}
	return ClassProtected
}
