package router

import (
	"net/http"

	"dice-chat-backend/internal/api"
	"dice-chat-backend/internal/api/endpoints"
)

// ChatRoutes exposes the websocket endpoint and the REST room listing.
func ChatRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		chatEndpoints := endpoints.NewChatEndpoints(s.Directory())

		mux.HandleFunc("/ws/", s.MakeHTTPHandleFunc(s.Handler().ServeWS))
		mux.HandleFunc(prefix+"/rooms", s.MakeHTTPHandleFunc(chatEndpoints.Rooms))
	}
}

// StaticRoutes serves the bundled web client: the root path redirects to the
// chat page and /static/ serves staticDir.
func StaticRoutes(staticDir string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			http.Redirect(w, r, "/static/application.html", http.StatusFound)
		})
	}
}
