// Package topicfile imports topic sets from YAML files.
//
// A topics file lists one entry per topic. An entry is either a plain string
// or a mapping with an optional image, given as a local path (relative to the
// file) or an http(s) URL:
//
//	enable_image: true
//	topics:
//	  - Go generics in practice
//	  - text: Rust ownership explained
//	    image: ./rust.png
//	  - text: WebAssembly outside the browser
//	    image: https://example.com/wasm.png
//
// Watcher re-reads the file whenever it changes so that an external editor
// can drive the workspace.
package topicfile
