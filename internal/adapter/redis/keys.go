package redis

// ResponseKey derives the cache key for a cached HTTP response from the
// request target (path plus raw query, verbatim). Both the read-through
// middleware and the fan-out invalidation must use this derivation so that
// identical requests always collide and distinct requests never do.
func ResponseKey(requestURI string) string {
	return "cache:" + requestURI
}
