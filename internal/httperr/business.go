package httperr

import "errors"

// BusinessError is a domain-rule violation identified by a stable code.
// Handlers translate codes to HTTP statuses; everything else treats these
// as opaque sentinel values.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// IsBusiness reports whether err carries the given business code.
func IsBusiness(err error, code string) bool {
	var be BusinessError
	return errors.As(err, &be) && be.Code == code
}
