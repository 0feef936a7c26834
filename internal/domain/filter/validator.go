package filter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxNameLen = 64

// ValidateName проверяет имя сохраненного фильтра
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("%w: at most %d characters", ErrBadName, MaxNameLen)
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("%w: only letters, digits, '_', '-', '.' are allowed", ErrBadName)
		}
	}

	return nil
}
