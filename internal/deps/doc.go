// Package deps checks that the external binaries platter shells out to are
// installed.
package deps
