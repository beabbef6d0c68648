// Package megaplantest provides an in-process Megaplan server for tests. It
// issues an access pair on authorization, checks the signature of every other
// request and answers with canned replies.
package megaplantest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tansive/megaplan/internal/common/middleware"
	"github.com/tansive/megaplan/internal/common/signature"
	"github.com/tidwall/sjson"
)

// AuthorizePath is the path of the authorization endpoint.
const AuthorizePath = "/BumsCommonApiV01/User/authorize.api"

// Default credentials of a new Server.
const (
	DefaultLogin     = "ivanov"
	DefaultPassword  = "secret"
	DefaultAccessID  = "A"
	DefaultSecretKey = "S"
)

// Request is a request received by the server.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	URI      string
	Header   http.Header
	Body     string
	Form     url.Values
}

// Reply is a canned answer.
type Reply struct {
	Status int
	Body   string
}

// Server is a fake Megaplan installation backed by httptest.
type Server struct {
	*httptest.Server

	Login     string
	Password  string
	AccessID  string
	SecretKey string
	// AuthDelay holds every authorization for the given time.
	AuthDelay time.Duration

	mu             sync.Mutex
	replies        map[string]Reply
	requests       []Request
	authorizations int
	authReply      *Reply
}

// NewServer starts a server accepting DefaultLogin and DefaultPassword. The
// caller closes it.
func NewServer() *Server {
	s := &Server{
		Login:     DefaultLogin,
		Password:  DefaultPassword,
		AccessID:  DefaultAccessID,
		SecretKey: DefaultSecretKey,
		replies:   make(map[string]Reply),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger, middleware.PanicHandler)
	r.Post(AuthorizePath, s.authorize)
	r.HandleFunc("/*", s.serve)
	s.Server = httptest.NewServer(r)
	return s
}

// Reply registers the answer for path, such as
// "/BumsTaskApiV01/Task/list.api". The query is not part of the key.
func (s *Server) Reply(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = Reply{Status: status, Body: body}
}

// ReplyData registers a successful answer whose data member is data, a JSON
// document.
func (s *Server) ReplyData(path, data string) {
	s.Reply(path, http.StatusOK, OK(data))
}

// ReplyError registers a service error with message.
func (s *Server) ReplyError(path, message string) {
	s.Reply(path, http.StatusOK, Error(message))
}

// ReplyAuthorize overrides the answer of the authorization endpoint.
func (s *Server) ReplyAuthorize(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authReply = &Reply{Status: status, Body: body}
}

// Requests returns the signed requests received so far, authorization excluded.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent signed request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Authorizations returns the number of authorization requests received.
func (s *Server) Authorizations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorizations
}

// OK wraps data into a successful reply envelope.
func OK(data string) string {
	body, _ := sjson.SetRaw(`{"status":{"code":"ok","message":null}}`, "data", data)
	return body
}

// Error builds a service error reply.
func Error(message string) string {
	body, _ := sjson.Set(`{"status":{"code":"error"}}`, "status.message", message)
	return body
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.authorizations++
	override := s.authReply
	delay := s.AuthDelay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if override != nil {
		write(w, override.Status, override.Body)
		return
	}

	if err := r.ParseForm(); err != nil {
		write(w, http.StatusBadRequest, Error(err.Error()))
		return
	}
	if r.PostForm.Get("Login") != s.Login || r.PostForm.Get("Password") != signature.PasswordHash(s.Password) {
		write(w, http.StatusOK, Error("Login or password is incorrect"))
		return
	}
	data := fmt.Sprintf(`{"AccessId":%q,"SecretKey":%q}`, s.AccessID, s.SecretKey)
	write(w, http.StatusOK, OK(data))
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		write(w, http.StatusBadRequest, Error(err.Error()))
		return
	}
	body := string(raw)
	form, _ := url.ParseQuery(body)

	if err := s.verify(r, body); err != nil {
		write(w, http.StatusUnauthorized, Error(err.Error()))
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		URI:      r.URL.RequestURI(),
		Header:   r.Header.Clone(),
		Body:     body,
		Form:     form,
	})
	reply, ok := s.replies[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		write(w, http.StatusNotFound, Error("Not found"))
		return
	}
	write(w, reply.Status, reply.Body)
}

// verify checks the X-Authorization header of r the same way the service does.
func (s *Server) verify(r *http.Request, body string) error {
	accessID, sig, found := strings.Cut(r.Header.Get("X-Authorization"), ":")
	if !found || accessID != s.AccessID {
		return fmt.Errorf("unknown access id %q", accessID)
	}
	if body != "" && r.Header.Get("Content-MD5") != signature.ContentMD5(body) {
		return fmt.Errorf("content md5 mismatch")
	}
	sc := signature.Context{
		Method:      r.Method,
		ContentMD5:  r.Header.Get("Content-MD5"),
		ContentType: r.Header.Get("Content-Type"),
		Date:        r.Header.Get("Date"),
		Host:        r.Host,
		URI:         r.URL.RequestURI(),
	}
	if r.Method == http.MethodGet {
		sc.ContentType = ""
	}
	if !sc.Verify(s.SecretKey, sig) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
