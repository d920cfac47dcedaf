package activity

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

const (
	ActionView      = "view"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionDownload  = "download"
	ActionUpload    = "upload"
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionExport    = "export"
	ActionExportCSV = "export_csv"
	ActionExportPDF = "export_pdf"
	ActionAccess    = "access"
)

var actionLabels = map[string]string{
	ActionView:      "閲覧",
	ActionCreate:    "作成",
	ActionUpdate:    "更新",
	ActionDelete:    "削除",
	ActionDownload:  "ダウンロード",
	ActionUpload:    "アップロード",
	ActionApprove:   "承認",
	ActionReject:    "差し戻し",
	ActionExport:    "エクスポート",
	ActionExportCSV: "CSVエクスポート",
	ActionExportPDF: "PDFエクスポート",
	ActionAccess:    "アクセス",
}

var targetLabels = map[string]string{
	"facility":            "施設情報",
	"user":                "ユーザー",
	"file":                "ファイル",
	"comment":             "コメント",
	"maintenance":         "メンテナンス履歴",
	"annual_confirmation": "年次確認",
	"notification":        "通知",
	"setting":             "設定",
	"system":              "システム",
}

// targetTypeOrder maps url fragments to target types; earlier entries win.
var targetTypeOrder = []struct {
	fragment string
	target   string
}{
	{"/facilities", "facility"},
	{"/users", "user"},
	{"/files", "file"},
	{"/comments", "comment"},
	{"/maintenance", "maintenance"},
	{"/annual-confirmation", "annual_confirmation"},
	{"/notifications", "notification"},
	{"/admin", "setting"},
	{"/settings", "setting"},
}

// targetIDParams are the route parameter names checked, in order, for the
// numeric id of the acted-on record.
var targetIDParams = []string{"id", "facility", "user", "file", "comment", "maintenance", "notification"}

var staticExtensions = map[string]bool{
	".css": true, ".js": true, ".map": true, ".png": true, ".jpg": true,
	".jpeg": true, ".gif": true, ".svg": true, ".ico": true, ".woff": true,
	".woff2": true, ".ttf": true,
}

var probePaths = map[string]bool{
	"/health": true, "/healthz": true, "/livez": true, "/readyz": true,
	"/ping": true, "/up": true,
}

func importantGet(path string) bool {
	return strings.Contains(path, "/download") ||
		strings.Contains(path, "/export") ||
		strings.Contains(path, "/admin")
}

func importantAjax(path string, method string) bool {
	if strings.Contains(path, "/status") && method != fiber.MethodGet {
		return true
	}
	return strings.Contains(path, "/approve") || strings.Contains(path, "/reject")
}

// ShouldSkip filters out requests that do not belong in the audit trail:
// routine GETs, most AJAX traffic, static assets and health probes.
func ShouldSkip(path string, method string, ajax bool) bool {
	path = strings.ToLower(path)
	if probePaths[path] {
		return true
	}
	for ext := range staticExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	if ajax && !importantAjax(path, method) {
		return true
	}
	if method == fiber.MethodGet && !importantGet(path) {
		return true
	}
	return false
}

// DetermineAction classifies a request into an audit action. Url fragments
// take priority over the verb mapping.
func DetermineAction(path string, method string) string {
	path = strings.ToLower(path)
	switch {
	case strings.Contains(path, "/download"):
		return ActionDownload
	case strings.Contains(path, "/export"):
		switch {
		case strings.Contains(path, "/csv"):
			return ActionExportCSV
		case strings.Contains(path, "/pdf"):
			return ActionExportPDF
		default:
			return ActionExport
		}
	case strings.Contains(path, "/approve"):
		return ActionApprove
	case strings.Contains(path, "/reject"):
		return ActionReject
	case strings.Contains(path, "/upload"):
		return ActionUpload
	}
	switch method {
	case fiber.MethodPost:
		return ActionCreate
	case fiber.MethodPut, fiber.MethodPatch:
		return ActionUpdate
	case fiber.MethodDelete:
		return ActionDelete
	case fiber.MethodGet:
		return ActionView
	default:
		return ActionAccess
	}
}

// DetermineTargetType classifies the acted-on resource from the url.
func DetermineTargetType(path string) string {
	path = strings.ToLower(path)
	for _, entry := range targetTypeOrder {
		if strings.Contains(path, entry.fragment) {
			return entry.target
		}
	}
	return "system"
}

// ExtractTargetID returns the first numeric route parameter among the known
// candidate names, or zero.
func ExtractTargetID(ctx *fiber.Ctx) uint {
	for _, name := range targetIDParams {
		if val := ctx.Params(name); val != "" {
			if id := cast.ToUint(val); id != 0 {
				return id
			}
		}
	}
	return 0
}

// Describe renders the localized one-line summary. Unmapped keys fall back to
// the raw key so nothing is silently dropped.
func Describe(action string, targetType string) string {
	actionLabel, ok := actionLabels[action]
	if !ok {
		actionLabel = action
	}
	targetLabel, ok := targetLabels[targetType]
	if !ok {
		targetLabel = targetType
	}
	return fmt.Sprintf("%sを%sしました", targetLabel, actionLabel)
}
