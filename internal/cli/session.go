package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tansive/megaplan/pkg/megaplan"
	"gopkg.in/yaml.v3"
)

const sessionFileName = "session.yaml"

// Session is the access pair obtained by the last authorization. It lives
// next to the config file so the config itself is never rewritten.
type Session struct {
	Host   string          `yaml:"host"`
	Login  string          `yaml:"login"`
	Access megaplan.Access `yaml:",inline"`
}

func sessionPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), sessionFileName)
}

// ReadSession returns the stored session, nil when there is none.
func ReadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read session file: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unable to parse session file: %w", err)
	}
	return &s, nil
}

// WriteSession stores s readable by the owner only.
func WriteSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("unable to generate session: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	return nil
}

// ClearSession removes the stored session. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove session file: %w", err)
	}
	return nil
}

// matches reports whether the session was obtained for the account and login of cfg.
func (s *Session) matches(c *megaplan.Client, cfg *Config) bool {
	return s != nil && s.Host == c.Host() && s.Login == cfg.Login && !s.Access.IsZero()
}

// apiClient is a megaplan client bound to the loaded configuration and the
// stored session.
type apiClient struct {
	*megaplan.Client
	cfg         *Config
	sessionFile string
	restored    megaplan.Access
}

// newClient builds a client from the current configuration and restores the
// stored access pair, if any.
func newClient() (*apiClient, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}

	opts := []megaplan.Option{
		megaplan.WithDebug(cfg.Debug),
		megaplan.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		megaplan.WithLogger(log.Logger),
		megaplan.WithRequestDump(logLevel == "trace"),
	}
	if cfg.Host != "" {
		opts = append(opts, megaplan.WithBaseURL(MorphServer(cfg.Host)))
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, megaplan.WithTimeout(d))
	}

	c, err := megaplan.NewClient(cfg.Account, cfg.Login, cfg.Password, opts...)
	if err != nil {
		return nil, err
	}

	ac := &apiClient{Client: c, cfg: cfg, sessionFile: sessionPath(configFile)}
	s, err := ReadSession(ac.sessionFile)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring stored session")
	} else if s.matches(c, cfg) {
		c.SetAccess(s.Access)
		ac.restored = c.Access()
	}
	return ac, nil
}

// save stores the current access pair when it changed since the client was built.
func (c *apiClient) save() error {
	a := c.Access()
	if a.IsZero() || a == c.restored {
		return nil
	}
	err := WriteSession(c.sessionFile, &Session{Host: c.Host(), Login: c.cfg.Login, Access: a})
	if err != nil {
		return err
	}
	c.restored = a
	return nil
}

// run calls fn with a fresh client and stores a newly obtained access pair.
// A rejected stored pair is dropped so the next command authorizes again.
func run(fn func(ctx context.Context, c *apiClient) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ctx := context.Background()
	err = fn(ctx, c)
	var statusErr *megaplan.HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == 401 && !c.restored.IsZero() {
		c.Logout()
		if cerr := ClearSession(c.sessionFile); cerr != nil {
			log.Warn().Err(cerr).Msg("unable to clear stale session")
		}
		return fmt.Errorf("%w; the stored session was rejected, run the command again to authorize", err)
	}
	if serr := c.save(); serr != nil {
		log.Warn().Err(serr).Msg("unable to store session")
	}
	return err
}
