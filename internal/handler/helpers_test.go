package handler_test

import "errors"

// errDup mimics the error text the MySQL driver produces for a unique-key
// violation.
func errDup() error {
	return errors.New("Error 1062 (23000): Duplicate entry 'Planets' for key 'name'")
}
