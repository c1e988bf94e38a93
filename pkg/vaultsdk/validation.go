package vaultsdk

import (
	"fmt"
	"unicode/utf8"
)

// MaxFieldLength is the longest name, username, appname or password the
// server accepts, in characters.
const MaxFieldLength = 100

const requiredReason = "required"

var tooLongReason = fmt.Sprintf("too long (max %d)", MaxFieldLength)

func checkField(errs map[string]string, field, value string) {
	switch n := utf8.RuneCountInString(value); {
	case n == 0:
		errs[field] = requiredReason
	case n > MaxFieldLength:
		errs[field] = tooLongReason
	}
}

func result(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks field lengths. Returns a map of field names to error
// messages, or nil if all fields are valid.
func (r RegisterAdministratorRequest) Validate() map[string]string {
	errs := make(map[string]string)
	checkField(errs, "name", r.Name)
	checkField(errs, "username", r.Username)
	checkField(errs, "password", r.Password)

	seen := make(map[string]bool, len(r.Accounts))
	for i, acc := range r.Accounts {
		for field, reason := range acc.Validate() {
			errs[fmt.Sprintf("accounts[%d].%s", i, field)] = reason
		}
		if seen[acc.Appname] {
			errs[fmt.Sprintf("accounts[%d].appname", i)] = "duplicate appname"
		}
		seen[acc.Appname] = true
	}
	return result(errs)
}

// Validate checks field lengths.
func (r AccountRequest) Validate() map[string]string {
	errs := make(map[string]string)
	checkField(errs, "appname", r.Appname)
	checkField(errs, "username", r.Username)
	checkField(errs, "password", r.Password)
	return result(errs)
}

// Validate checks field lengths.
func (r ModifyAccountRequest) Validate() map[string]string {
	errs := make(map[string]string)
	checkField(errs, "appname", r.Appname)
	checkField(errs, "new_username", r.NewUsername)
	checkField(errs, "new_password", r.NewPassword)
	return result(errs)
}
