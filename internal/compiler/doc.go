// Package compiler turns a CUE program into a proc invocation.
//
// A program names one proc and its options:
//
//	proc: "split"
//	options: {
//		columns: ["user", "sys"]
//		arrays:  false
//	}
//
// CUE parse and evaluation failures become syntax-kind errors; a program of
// the wrong shape is a compile-kind error. Both carry the CUE position as
// their location. Build then constructs the proc through a registry, so
// option errors are attributed to the program as well.
package compiler
