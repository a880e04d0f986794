// Package deferred loads optional resources without failing up front.
//
// A Loader runs its load function once, at construction. When the resource
// does not exist the loader logs a warning and records the failure instead
// of returning it; the failure only surfaces, as a *NotFoundError, when the
// caller actually asks for the value. Every other load error is returned
// straight away.
//
//	cfg, err := deferred.Open("config.json", deferred.JSON[Config]())
//	if err != nil {
//	    return err // malformed, unreadable, ...
//	}
//	...
//	c, err := cfg.Value() // ErrResourceNotFound if config.json was missing
package deferred
