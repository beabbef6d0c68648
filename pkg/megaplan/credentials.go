package megaplan

import "sync"

// session holds the access pair issued by the service and the scheme the
// client talks to. Both fields of the pair are set or cleared together.
type session struct {
	mu        sync.RWMutex
	accessID  string
	secretKey string
	scheme    string
}

func (s *session) get() (accessID, secretKey, scheme string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessID, s.secretKey, s.scheme
}

func (s *session) authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessID != "" && s.secretKey != ""
}

// set stores the pair. An incomplete pair clears the session instead.
func (s *session) set(accessID, secretKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if accessID == "" || secretKey == "" {
		s.accessID, s.secretKey = "", ""
		return
	}
	s.accessID, s.secretKey = accessID, secretKey
}

func (s *session) setScheme(scheme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheme = scheme
}

func (s *session) clear() {
	s.set("", "")
}

// Access is an access pair issued by the service, as returned by
// Client.Access and accepted by Client.SetAccess.
type Access struct {
	AccessID  string `json:"access_id" yaml:"access_id" toml:"access_id"`
	SecretKey string `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
}

// IsZero reports whether the pair is unusable.
func (a Access) IsZero() bool {
	return a.AccessID == "" || a.SecretKey == ""
}
