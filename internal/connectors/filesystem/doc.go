// Package filesystem finds document files below a directory and watches
// it for changes.
//
// Hidden files and directories (any path component starting with a dot)
// are never returned or watched.
package filesystem
