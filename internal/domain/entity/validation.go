package entity

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"strings"
)

// maxURLLength caps article URLs accepted from the market data API.
const maxURLLength = 2048

// blockedRanges are networks the content fetcher must never reach:
// RFC 1918 space and the link-local block, which includes cloud
// metadata endpoints. Loopback and IPv6 link-local are handled by the
// net.IP predicates.
var blockedRanges = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, subnet, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("bad CIDR literal %q: %v", cidr, err))
		}
		nets = append(nets, subnet)
	}
	return nets
}

// ValidateURL checks that an article URL is safe for the content
// fetcher to follow: http or https, a real host, bounded length, and
// not resolving into a private network.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}

	for _, ip := range resolveHost(parsed.Hostname()) {
		if isBlockedIP(ip) {
			return &ValidationError{Field: "url", Message: "url cannot point to private network"}
		}
	}
	return nil
}

// ValidateEmail validates a delivery address. The address is the external
// join key between the auth layer and this service, so a malformed one is
// rejected before any work is scheduled for it.
func ValidateEmail(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return &ValidationError{Field: "email", Message: "email is not a valid address"}
	}
	return nil
}

// resolveHost returns the addresses the host stands for. An IP literal
// needs no lookup; a hostname that fails to resolve returns nothing and
// the fetch will fail on its own later.
func resolveHost(host string) []net.IP {
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil
	}
	return ips
}

func isBlockedIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() {
		return true
	}
	for _, subnet := range blockedRanges {
		if subnet.Contains(ip) {
			return true
		}
	}
	return false
}
