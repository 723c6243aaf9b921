// Package must provides panic-on-error helpers for initialization-time calls
// that cannot reasonably fail.
package must

func Must(err error) {
	if err != nil {
		panic(err)
	}
}
