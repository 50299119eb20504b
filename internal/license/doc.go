// Package license provides the static registry mapping license names to
// plugin artifacts and the (address, port) pairs entitled to download them.
package license
