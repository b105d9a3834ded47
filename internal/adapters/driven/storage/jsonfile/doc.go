// Package jsonfile provides file-backed implementations of driven ports.
//
// Platform records are read once from a JSON array. Analytics are kept
// in two JSON documents, one for chat interactions and one for page
// views, rewritten atomically on every change.
package jsonfile
