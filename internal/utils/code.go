package utils

import (
	"fmt"
	"strings"
	"time"
)

// GenerateCode builds "{PREFIX}_{NNNNN}" where the 5-digit suffix is derived
// from the current time in milliseconds. The suffix is incremented until
// exists reports the code as free, so concurrent or rapid generation never
// hands out a persisted code twice.
func GenerateCode(prefix string, exists func(string) (bool, error)) (string, error) {
	suffix := int(time.Now().UnixMilli() % 100000)
	for {
		code := fmt.Sprintf("%s_%05d", prefix, suffix)
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		suffix++
	}
}

// ProductCodePrefix derives the code prefix from a manufacturer name: its
// first three characters, uppercased. Shorter names are used whole.
func ProductCodePrefix(manufacturer string) string {
	runes := []rune(manufacturer)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// GenerateProductCode builds a unique catalog code for a manufacturer.
func GenerateProductCode(manufacturer string, exists func(string) (bool, error)) (string, error) {
	return GenerateCode(ProductCodePrefix(manufacturer), exists)
}
