package validate

import "net/url"

// ValidURL reports whether s parses as an absolute URL with a scheme and
// host. Syntax only; reachability is the URL checker's job.
func ValidURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
