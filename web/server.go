/*
Functions for creating and servicing the web interface of the conversion check.
*/
package web

import (
	"bytes"
	"context"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sihwankim2023/kd-boiler-checker/document"
	"github.com/sihwankim2023/kd-boiler-checker/metrics"
	"github.com/sihwankim2023/kd-boiler-checker/selector"
	"github.com/sihwankim2023/kd-boiler-checker/session"
	"github.com/sihwankim2023/kd-boiler-checker/wizard"
)

// RenderFailedMessage is shown when the documents could not be generated.
const RenderFailedMessage = "문서 생성 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// Renderer produces the confirmation documents of a form.
type Renderer interface {
	Render(document.Form) (document.Output, error)
}

// Options are the collaborators of a Server.
type Options struct {
	Selector *selector.Selector
	Renderer Renderer
	Sessions *session.Store
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	// Cookie is the name of the session cookie.
	Cookie string
	// Now returns the current time, time.Now when nil.
	Now func() time.Time
}

// Server is the HTTP front end of the wizard.
type Server struct {
	selector *selector.Selector
	renderer Renderer
	sessions *session.Store
	metrics  *metrics.Metrics
	log      *zap.Logger
	cookie   string
	now      func() time.Time
	router   chi.Router
}

// New returns a server with all routes registered.
func New(o Options) *Server {
	s := &Server{
		selector: o.Selector,
		renderer: o.Renderer,
		sessions: o.Sessions,
		metrics:  o.Metrics,
		log:      o.Logger,
		cookie:   o.Cookie,
		now:      o.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/catalog", s.handle(s.catalogPage))
	r.Get("/catalog.json", s.handle(s.catalogJSON))
	r.Get("/catalog.xlsx", s.handle(s.catalogXLSX))
	r.Get("/api/candidates", s.apiCandidates)
	r.Post("/api/decide", s.apiDecide)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handle(s.index))
		r.Post("/qualification", s.handle(s.qualification))
		r.Post("/selection", s.handle(s.selection))
		r.Post("/decide", s.handle(s.decide))
		r.Post("/proceed", s.handle(s.proceed))
		r.Post("/back", s.handle(s.back))
		r.Post("/restart", s.handle(s.restart))
		r.Post("/form", s.handle(s.form))
		r.Get("/history.xlsx", s.handle(s.historyXLSX))
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve runs the handler on addr until ctx is done, then shuts the server down gracefully.
func Serve(ctx context.Context, h http.Handler, addr string, shutdownTimeout time.Duration, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("starting server", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server listen")
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
}

var errorTemplate = template.Must(template.New("error").Parse(
	`<html>OOPS!
<pre>{{.Error}}</pre>`))

// handle adapts a handler returning an error. A session that expired mid-request starts over at the
// home page, other errors produce the error page.
func (s *Server) handle(fn func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if errors.Is(err, session.ErrNotFound) {
			s.log.Info("session expired during request", zap.String("path", r.URL.Path))
			redirectHome(w, r)
			return
		}
		if err != nil {
			s.log.Error("request failed",
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			_ = errorTemplate.Execute(w, err)
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", s.now().Sub(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type sessionKey struct{}

// withSession makes sure the request belongs to a live session, starting one when needed.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id session.ID
		if c, err := r.Cookie(s.cookie); err == nil && s.sessions.Exists(session.ID(c.Value)) {
			id = session.ID(c.Value)
		} else {
			id = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     s.cookie,
				Value:    string(id),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

// withWizard runs fn on the wizard of the request's session.
func (s *Server) withWizard(r *http.Request, fn func(wz *wizard.Wizard) error) error {
	id, _ := r.Context().Value(sessionKey{}).(session.ID)
	return s.sessions.With(id, fn)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"records": s.selector.Catalog().Len(),
	})
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// writeAttachment sends data as a file download named name.
func writeAttachment(w http.ResponseWriter, name, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeHTML executes a template into a buffer first so template errors still produce the error page.
func writeHTML(w http.ResponseWriter, status int, tmpl *template.Template, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return errors.Wrapf(err, "failed to execute template %s", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
