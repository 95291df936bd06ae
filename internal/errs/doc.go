// Package errs provides the structured error taxonomy shared by program
// compilation and point processing.
//
// Every failure is an *Error tagged with a Kind (syntax, compile or runtime),
// a stable symbolic Code and an open Info bag. The human-readable Message is
// rendered once, at construction, from a Catalog template keyed by Code:
//
//	cat := errs.DefaultCatalog()
//	err := cat.Compile(errs.CodeSplitName, nil)
//
// Source positions are attached after the fact with Locate. A failure site
// does not need to know where it is; the nearest enclosing scope that does
// wraps the call, and the innermost location wins:
//
//	err := errs.Locate(func() error {
//	    return buildProc(opts)
//	}, loc)
//
// This package performs no I/O and never logs.
package errs
