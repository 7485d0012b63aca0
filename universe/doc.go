// Package universe keeps track of the types a program can serialize.
//
// Go has no runtime listing of the types linked into a binary, so packages
// add their types to a Registry, normally from a file generated by
// blockx-gen:
//
//	func init() {
//	    universe.Register(
//	        reflect.TypeFor[Point](),
//	    )
//	}
//
// A Scanner takes a snapshot of a Provider and enumerates the loadable types,
// either all of them or those under an import-path prefix. Candidates whose
// loader fails are skipped rather than aborting the scan.
package universe
