package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dice-chat-backend/internal/api/middleware"
	"dice-chat-backend/internal/env"
	"dice-chat-backend/internal/queue"
)

type apiFunc func(http.ResponseWriter, *http.Request) error

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func corsConfig() middleware.CORSConfig {
	origins := []string{"*"}
	if web := env.Get(env.WebURL); web != "" {
		origins = []string{web}
	}
	return middleware.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}
}

// MakeHTTPHandleFunc runs f through the request queue and translates errors
// into the JSON error envelope. CORS and logging wrap the result.
func (s *APIServer) MakeHTTPHandleFunc(f apiFunc) http.HandlerFunc {
	baseHandler := func(w http.ResponseWriter, r *http.Request) {
		errc := make(chan error, 1)

		s.requestQueueManager.EnqueueJob(queue.Job{
			Fn: func() error {
				return f(w, r)
			},
			Errc: errc,
		})

		err := <-errc
		if err != nil {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				fmt.Println(httpErr.ErrorLog)
				WriteJSON(w, httpErr.StatusCode, ApiError{Error: httpErr.Message})
			} else {
				WriteJSON(w, http.StatusInternalServerError, ApiError{Error: "Internal server error"})
			}
		}
	}

	return middleware.Chain(baseHandler, middleware.CORS(corsConfig()), middleware.Logging())
}
