package security

import (
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// dangerousExtensions are upload extensions rejected outright. The set mirrors
// server-side executables and script types; archives and office documents are
// allowed.
var dangerousExtensions = map[string]bool{
	"exe": true, "bat": true, "cmd": true, "com": true, "scr": true, "pif": true,
	"jar": true, "php": true, "php3": true, "php4": true, "php5": true, "phtml": true,
	"js": true, "vbs": true, "sh": true, "py": true, "pl": true, "rb": true,
	"asp": true, "aspx": true, "jsp": true, "htaccess": true,
}

var suspiciousFilenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[1-9]|lpt[1-9])(\.|$)`), // reserved windows device names
	regexp.MustCompile(`[\x00-\x1f]`),
	regexp.MustCompile(`[<>:"|?*]`),
}

// DangerousExtension reports whether a filename carries a blocked extension.
func DangerousExtension(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return dangerousExtensions[ext]
}

// SuspiciousFilename reports whether a name looks unusable or hostile as a
// filename. Matches are logged but never block.
func SuspiciousFilename(name string) bool {
	for _, pattern := range suspiciousFilenamePatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// CheckUploads inspects every uploaded file and returns the first filename
// with a blocked extension.
func CheckUploads(ctx *fiber.Ctx) (string, bool) {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return "", false
	}
	for _, files := range form.File {
		for _, file := range files {
			if DangerousExtension(file.Filename) {
				return file.Filename, true
			}
		}
	}
	return "", false
}

// UploadedFiles flattens the multipart form into a single file list.
func UploadedFiles(ctx *fiber.Ctx) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var all []*multipart.FileHeader
	for _, files := range form.File {
		all = append(all, files...)
	}
	return all
}

// SuspiciousParamNames scans string parameters for suspicious filename
// patterns and returns the offending parameter keys.
func SuspiciousParamNames(ctx *fiber.Ctx) []string {
	var offending []string
	for key, value := range requestValues(ctx) {
		if SuspiciousFilename(value) {
			offending = append(offending, key)
		}
	}
	return offending
}
