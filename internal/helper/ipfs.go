package helper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var cidRe = regexp.MustCompile("(Qm[1-9A-HJ-NP-Za-km-z]{44}.*$)")

func IsUrl(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func IsIpfs(uri string) bool {
	if cidRe.MatchString(uri) {
		return true
	}

	if !IsUrl(uri) {
		return false
	}

	u, _ := url.Parse(uri)
	return u.Scheme == "ipfs"
}

// GetIpfs reduces any gateway form to the canonical ipfs:// uri.
func GetIpfs(uri string) string {
	if strings.HasPrefix(uri, "ipfs://") {
		return uri
	}

	parts := cidRe.FindStringSubmatch(uri)
	if len(parts) == 2 {
		return "ipfs://" + parts[1]
	}

	return ""
}

func ToGatewayUrl(uri, host string) string {
	ipfs := GetIpfs(uri)
	if ipfs == "" {
		return uri
	}

	return fmt.Sprintf("%s/ipfs/%s", host, strings.TrimPrefix(ipfs, "ipfs://"))
}
