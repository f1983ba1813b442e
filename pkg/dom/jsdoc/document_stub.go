//go:build !js || !wasm
// +build !js !wasm

package jsdoc

import (
	"errors"

	"github.com/recera/vstyle/pkg/dom"
)

// ErrUnsupported is returned outside of js/wasm builds
var ErrUnsupported = errors.New("jsdoc: the browser document is only available in WASM builds")

// Open binds to the global document (stub)
func Open() (dom.Document, error) {
	return nil, ErrUnsupported
}
