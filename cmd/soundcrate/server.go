package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"soundcrate/internal/auth"
	"soundcrate/internal/cache"
	"soundcrate/internal/export"
	"soundcrate/internal/httpapi"
	"soundcrate/internal/likes"
	"soundcrate/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, derivedCache *cache.Cache, producer *export.Producer, log zerolog.Logger) http.Handler {
	likeSvc := likes.New(dataStore, derivedCache, log)
	tokens := auth.NewManager([]byte(cfg.AccessTokenKey), []byte(cfg.RefreshTokenKey))

	server := httpapi.New(dataStore, dataStore, dataStore, dataStore, likeSvc, producer, tokens)

	return withCORS(cfg.AllowedOrigins, withRequestLog(log, server.Routes()))
}

func withRequestLog(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("http request")
		next.ServeHTTP(w, r)
	})
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
