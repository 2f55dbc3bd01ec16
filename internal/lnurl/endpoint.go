package lnurl

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	lnurlHRP        = "lnurl"
	lightningPrefix = "lightning:"
)

var (
	ErrNotLnURL = errors.New("input is not an LNURL")

	lightningAddressRe = regexp.MustCompile(`^[a-z0-9\-_.+]+@(?:[a-z0-9\-]+\.)+[a-z]{2,}$|^[a-z0-9\-_.+]+@(?:localhost|[0-9.]+)(?::[0-9]+)?$`)
)

// Endpoint resolves an LNURL in any of its encodings to the HTTPS URL that
// serves its parameters:
//   - bech32 "lnurl1..." (LUD-01), optionally prefixed with "lightning:"
//   - "lnurlp://" and "lnurlw://" schemes (LUD-17)
//   - lightning addresses "user@domain" (LUD-16)
//
// The second return value is the lightning address, if the input was one.
func Endpoint(input string) (string, string, error) {
	s := strings.TrimSpace(input)
	if len(s) > len(lightningPrefix) && strings.EqualFold(s[:len(lightningPrefix)], lightningPrefix) {
		s = s[len(lightningPrefix):]
	}
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, lnurlHRP+"1"):
		u, err := decodeBech32(lower)
		return u, "", err

	case strings.HasPrefix(lower, "lnurlp://"), strings.HasPrefix(lower, "lnurlw://"):
		return schemeToHTTP(s)

	case IsLightningAddress(lower):
		user, domain, _ := strings.Cut(lower, "@")
		scheme := "https"
		if isLocal(domain) {
			scheme = "http"
		}
		return fmt.Sprintf("%s://%s/.well-known/lnurlp/%s", scheme, domain, user), lower, nil
	}

	// A plain URL carrying an lnurl query parameter (common in QR codes).
	if u, err := url.Parse(s); err == nil && (u.Scheme == "https" || u.Scheme == "http") {
		if q := u.Query().Get("lightning"); q != "" {
			return Endpoint(q)
		}
	}

	return "", "", ErrNotLnURL
}

func IsLightningAddress(s string) bool {
	return lightningAddressRe.MatchString(strings.ToLower(s))
}

// Encode returns the bech32 LNURL form of rawURL.
func Encode(rawURL string) (string, error) {
	conv, err := bech32.ConvertBits([]byte(rawURL), 8, 5, true)
	if err != nil {
		return "", err
	}
	encoded, err := bech32.Encode(lnurlHRP, conv)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(encoded), nil
}

func decodeBech32(s string) (string, error) {
	// LNURLs are routinely longer than the 90 chars BIP-173 allows.
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", fmt.Errorf("invalid bech32 lnurl: %w", err)
	}
	if hrp != lnurlHRP {
		return "", fmt.Errorf("invalid lnurl prefix %q", hrp)
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", fmt.Errorf("invalid lnurl payload: %w", err)
	}

	u, err := url.Parse(string(raw))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("lnurl does not encode a url: %q", string(raw))
	}
	if u.Scheme != "https" && !(u.Scheme == "http" && isLocal(u.Hostname())) {
		if !strings.HasSuffix(u.Hostname(), ".onion") {
			return "", fmt.Errorf("lnurl must use https: %s", u.Redacted())
		}
	}
	return u.String(), nil
}

func schemeToHTTP(s string) (string, string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", "", fmt.Errorf("invalid lnurl: %w", err)
	}
	u.Scheme = "https"
	if strings.HasSuffix(u.Hostname(), ".onion") || isLocal(u.Hostname()) {
		u.Scheme = "http"
	}
	return u.String(), "", nil
}

func isLocal(host string) bool {
	h := host
	if i := strings.LastIndex(h, ":"); i > 0 && !strings.Contains(h[i:], "]") {
		h = h[:i]
	}
	return h == "localhost" || h == "127.0.0.1" || h == "::1"
}
