package security

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/bytebufferpool"
)

// traversalPatterns match the path traversal payloads the original application
// rejects, including URL-encoded and double-encoded variants.
var traversalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.\./`),
	regexp.MustCompile(`\.\.\\`),
	regexp.MustCompile(`(?i)%2e%2e%2f`),
	regexp.MustCompile(`(?i)%2e%2e/`),
	regexp.MustCompile(`(?i)\.\.%2f`),
	regexp.MustCompile(`(?i)%2e%2e%5c`),
	regexp.MustCompile(`(?i)%252e%252e%252f`),
	regexp.MustCompile(`/etc/`),
	regexp.MustCompile(`/proc/`),
	regexp.MustCompile(`/var/`),
	regexp.MustCompile(`(?i)[a-z]:\\`),
}

func matchesTraversal(value string) bool {
	for _, pattern := range traversalPatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// requestValues collects every request input: query string, form fields and
// route parameters. The raw URL and upload filenames are scanned separately.
func requestValues(ctx *fiber.Ctx) map[string]string {
	values := make(map[string]string)
	ctx.Request().URI().QueryArgs().VisitAll(func(key, val []byte) {
		values[string(key)] = string(val)
	})
	ctx.Request().PostArgs().VisitAll(func(key, val []byte) {
		values[string(key)] = string(val)
	})
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		for key, vals := range form.Value {
			if len(vals) > 0 {
				values[key] = vals[0]
			}
		}
	}
	for key, val := range ctx.AllParams() {
		values[key] = val
	}
	return values
}

// DetectTraversal scans every request input, the raw URL path and any upload
// filenames, returning the offending input keys. An empty result means the
// request is clean. Uploaded file contents are not request inputs and are
// never scanned; a document is free to mention paths in its text.
func DetectTraversal(ctx *fiber.Ctx) []string {
	var offending []string
	for key, value := range requestValues(ctx) {
		if matchesTraversal(value) {
			offending = append(offending, key)
		}
	}

	// The raw URL and upload filenames are scanned as one blob; a pooled
	// buffer avoids an allocation per request on the hot path.
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.WriteString(ctx.OriginalURL())
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		for _, files := range form.File {
			for _, file := range files {
				buf.WriteByte('\n')
				buf.WriteString(file.Filename)
			}
		}
	}
	if len(offending) == 0 && matchesTraversal(buf.String()) {
		offending = append(offending, "_request")
	}
	return offending
}
