package helper

import (
	"regexp"
	"strings"
)

var addressRe = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

func IsAddress(addr string) bool {
	return addressRe.MatchString(addr)
}

func NormaliseAddress(addr string) string {
	return strings.ToLower(addr)
}

func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
