package security

import (
	"regexp"

	"github.com/Izumi-Yuya/shicecal-sub015/internal/store"
	"github.com/Izumi-Yuya/shicecal-sub015/params"
	"github.com/gofiber/fiber/v2"
)

const (
	SignalUserAgent     = "user_agent"
	SignalRapidRequests = "rapid_requests"
	SignalPayload       = "payload_pattern"
	SignalMissingHeader = "missing_ajax_header"
)

var suspiciousUserAgents = regexp.MustCompile(`(?i)(sqlmap|nikto|nessus|acunetix|masscan|nmap|dirbuster|gobuster|wpscan|hydra|metasploit|python-requests|libwww-perl)`)

// injectionPatterns flag sql injection, xss and command injection payloads in
// string inputs. Detection only; matches never block the request.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i)select\s+.+\s+from\s`),
	regexp.MustCompile(`(?i)insert\s+into\s`),
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)information_schema`),
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on(error|load|click|mouseover)\s*=`),
	regexp.MustCompile(`(?i)[;|&]\s*(cat|ls|rm|wget|curl|bash|sh)\s`),
	regexp.MustCompile(`\$\([^)]*\)`),
	regexp.MustCompile("`[^`]*`"),
}

// SuspiciousDetector combines independent request heuristics into a score.
// The verdict is advisory: callers log above the threshold but never block.
type SuspiciousDetector struct {
	counters store.Storage
}

func NewSuspiciousDetector(counters store.Storage) *SuspiciousDetector {
	return &SuspiciousDetector{counters: counters}
}

func (d *SuspiciousDetector) checkUserAgent(ctx *fiber.Ctx) bool {
	ua := ctx.Get(fiber.HeaderUserAgent)
	return ua == "" || suspiciousUserAgents.MatchString(ua)
}

func (d *SuspiciousDetector) checkRapidRequests(ctx *fiber.Ctx) bool {
	key := params.RapidIPKeyPrefix + ctx.IP()
	count, err := d.counters.Incr(ctx.Context(), key, params.RapidRequestWindow)
	if err != nil {
		return false
	}
	return count > params.RapidRequestLimit
}

func (d *SuspiciousDetector) checkPayload(ctx *fiber.Ctx) bool {
	for _, value := range requestValues(ctx) {
		for _, pattern := range injectionPatterns {
			if pattern.MatchString(value) {
				return true
			}
		}
	}
	return false
}

func (d *SuspiciousDetector) checkMissingHeader(ctx *fiber.Ctx) bool {
	return expectsJSON(ctx) && ctx.Get("X-Requested-With") == ""
}

// Score evaluates all heuristics and returns the total with the names of the
// signals that fired.
func (d *SuspiciousDetector) Score(ctx *fiber.Ctx) (int, []string) {
	var signals []string
	if d.checkUserAgent(ctx) {
		signals = append(signals, SignalUserAgent)
	}
	if d.checkRapidRequests(ctx) {
		signals = append(signals, SignalRapidRequests)
	}
	if d.checkPayload(ctx) {
		signals = append(signals, SignalPayload)
	}
	if d.checkMissingHeader(ctx) {
		signals = append(signals, SignalMissingHeader)
	}
	return len(signals), signals
}

// IsSuspicious reports whether a score crosses the recording threshold.
func IsSuspicious(score int) bool {
	return score >= params.SuspiciousScoreThreshold
}
