package params

import "time"

const (
	ServerBodyLimit    = 52428800 // 50 MiB, drawings and scanned contracts can be large
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	RateLimitKeyPrefix = "document_operations:" // counter key prefix for document operations
	RapidIPKeyPrefix   = "rapid_requests:"      // counter key prefix for per-ip burst detection

	UploadRateLimit          = 20  // upload requests allowed per window
	DownloadRateLimit        = 100 // download requests allowed per window
	FolderOperationRateLimit = 30  // folder create/rename/delete requests per window
	DefaultRateLimit         = 50  // any other document request per window
	RateLimitWindow          = 60 * time.Second

	RapidRequestLimit  = 10 // requests from a single ip within RapidRequestWindow counted as rapid
	RapidRequestWindow = 10 * time.Second

	SuspiciousScoreThreshold = 2 // number of heuristics that must fire before an event is recorded

	CSRFTokenExpiration = 1 * time.Hour
	APITokenExpiration  = 24 * time.Hour

	HealthCheckServerAddr = ":3001" // health check server address
)
