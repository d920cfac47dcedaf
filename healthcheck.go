package main

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// startHealthCheckServer exposes /livez and /readyz on a side port. rdb may be
// nil when the service runs without redis.
func startHealthCheckServer(addr string, rdb redis.UniversalClient, db *gorm.DB) {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if err := sqlDB.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if rdb != nil {
			if _, err := rdb.Ping(r.Context()).Result(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	http.ListenAndServe(addr, mux)
}
