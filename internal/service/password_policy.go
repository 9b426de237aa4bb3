package service

import "unicode/utf8"

const defaultPasswordMinLength = 6

type passwordPolicyError struct {
	minLength int
}

func (e passwordPolicyError) Error() string {
	return ErrWeakPassword.Error()
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword || target == ErrValidation
}

func (e passwordPolicyError) Key() string {
	return ErrWeakPassword.Key()
}

func (e passwordPolicyError) Args() []interface{} {
	return []interface{}{e.minLength}
}

// validatePassword 按字符数校验最小长度
func validatePassword(minLength int, password string) error {
	if minLength <= 0 {
		minLength = defaultPasswordMinLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return passwordPolicyError{minLength: minLength}
	}
	return nil
}
