package util

// IgnoreError calls fn and drops the error it returns.  Example `defer util.IgnoreError(file.Close)`
func IgnoreError(fn func() error) {
	_ = fn()
}

// Close calls fn and stores its error in err unless err already holds one.
// Example `defer util.Close(&err, writer.Close)`
func Close(err *error, fn func() error) {
	closeErr := fn()
	if *err == nil {
		*err = closeErr
	}
}
