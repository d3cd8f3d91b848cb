package ticket

import (
	"encoding/base64"
	"strings"
	"unicode"
)

const uniqueLen = 8

// GenerateCode derives the redemption code "PREFIX-UNIQUE8-Name".
//
// UNIQUE8 is the first 8 characters of the standard Base64 encoding of
// "name|email|date", uppercased. It is obfuscation only: anyone can decode it.
// The same inputs always produce the same code.
func GenerateCode(prefix, name, email, dateUTC string) string {
	return prefix + "-" + uniquePart(name, email, dateUTC) + "-" + SanitizeName(name)
}

func uniquePart(name, email, dateUTC string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(name + "|" + email + "|" + dateUTC))
	if len(enc) > uniqueLen {
		enc = enc[:uniqueLen]
	}
	return strings.ToUpper(enc)
}

// SanitizeName strips all whitespace from name.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
