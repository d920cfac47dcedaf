package iprestrict

import (
	"context"
	"encoding/binary"
	"net"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AllowedIPsProvider supplies the configured allow-list. An empty list means
// no restriction; provider errors are treated the same way (fail-open so a
// corrupt setting cannot lock operators out).
type AllowedIPsProvider interface {
	AllowedIPs(ctx context.Context) []string
}

// MatchIP tests one client address against one pattern: exact match first,
// then IPv4 CIDR, then wildcard. Malformed patterns never match.
func MatchIP(ip string, pattern string) bool {
	if ip == pattern {
		return true
	}
	if strings.Contains(pattern, "/") {
		return matchCIDR(ip, pattern)
	}
	if strings.Contains(pattern, "*") {
		return matchWildcard(ip, pattern)
	}
	return false
}

func ipv4ToUint32(ip net.IP) (uint32, bool) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(v4), true
}

// matchCIDR compares the masked 32-bit representations. IPv6 is unsupported.
func matchCIDR(ip string, pattern string) bool {
	_, network, err := net.ParseCIDR(pattern)
	if err != nil {
		return false
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return false
	}
	addrBits, ok := ipv4ToUint32(addr)
	if !ok {
		return false
	}
	netBits, ok := ipv4ToUint32(network.IP)
	if !ok {
		return false
	}
	ones, bits := network.Mask.Size()
	if bits != 32 {
		return false
	}
	mask := uint32(0xffffffff) << (32 - ones)
	if ones == 0 {
		mask = 0
	}
	return addrBits&mask == netBits&mask
}

func matchWildcard(ip string, pattern string) bool {
	expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
	matched, err := regexp.MatchString(expr, ip)
	return err == nil && matched
}

// Allowed reports whether ip passes the configured patterns. First match
// wins; an empty pattern list allows everything.
func Allowed(ip string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if MatchIP(ip, pattern) {
			return true
		}
	}
	return false
}

type Config struct {
	Provider AllowedIPsProvider
	Skip     bool // bypass entirely, set for local and testing environments
}

func New(config Config) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if config.Skip {
			return ctx.Next()
		}
		patterns := config.Provider.AllowedIPs(ctx.Context())
		if !Allowed(ctx.IP(), patterns) {
			return fiber.NewError(fiber.StatusForbidden, "このIPアドレスからのアクセスは許可されていません。")
		}
		return ctx.Next()
	}
}
