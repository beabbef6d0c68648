package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type statusErr struct {
	code int
}

func (s *statusErr) Error() string { return fmt.Sprintf("status %d", s.code) }

func TestError(t *testing.T) {
	t.Run("derivation", func(t *testing.T) {
		ErrClient := New("megaplan client error")
		assert.Equal(t, "megaplan client error", ErrClient.Error())
		assert.ErrorIs(t, ErrClient, ErrClient)

		ErrTransport := ErrClient.New("transport failure")
		assert.Equal(t, "transport failure", ErrTransport.Error())
		assert.ErrorIs(t, ErrTransport, ErrClient)

		ErrScheme := ErrTransport.New("unsupported scheme")
		assert.ErrorIs(t, ErrScheme, ErrTransport)
		assert.ErrorIs(t, ErrScheme, ErrClient)
	})

	t.Run("attached causes", func(t *testing.T) {
		ErrAuth := New("authentication failed")
		cause := errors.New("connection refused")
		wrapped := ErrAuth.Err(cause)
		assert.Equal(t, "authentication failed", wrapped.Error())
		assert.ErrorIs(t, wrapped, ErrAuth)
		assert.ErrorIs(t, wrapped, cause)

		other := New("service error")
		wrapped = ErrAuth.MsgErr("login rejected", other.Msg("bad password"))
		assert.Equal(t, "login rejected", wrapped.Error())
		assert.ErrorIs(t, wrapped, ErrAuth)
		assert.ErrorIs(t, wrapped, other)

		wrapped = ErrAuth.Err(nil)
		assert.Len(t, wrapped.UnwrapAll(), 1)
	})

	t.Run("typed causes reachable with As", func(t *testing.T) {
		ErrHTTP := New("http status error")
		wrapped := ErrHTTP.Err(&statusErr{code: http.StatusNotFound})
		var se *statusErr
		if assert.ErrorAs(t, wrapped, &se) {
			assert.Equal(t, http.StatusNotFound, se.code)
		}
	})

	t.Run("status code and prefix", func(t *testing.T) {
		ErrHTTP := New("http status error").SetStatusCode(http.StatusForbidden)
		assert.Equal(t, http.StatusForbidden, ErrHTTP.StatusCode())
		assert.Equal(t, http.StatusForbidden, ErrHTTP.New("forbidden").StatusCode())

		prefixed := ErrHTTP.Prefix("BumsTaskApiV01/Task/list.api")
		assert.Equal(t, "BumsTaskApiV01/Task/list.api: http status error", prefixed.Error())
		assert.Equal(t, "http status error", ErrHTTP.Error())
	})

	t.Run("expanded message", func(t *testing.T) {
		ErrParam := New("invalid parameter value").SetExpandError(true)
		wrapped := ErrParam.Err(errors.New("Folder: bogus"), errors.New("Status: nope"))
		assert.Equal(t, "invalid parameter value", wrapped.Error())
		assert.Equal(t, "invalid parameter value; Folder: bogus; Status: nope", wrapped.ErrorAll())

		plain := New("plain").Err(errors.New("hidden"))
		assert.Equal(t, "plain", plain.ErrorAll())
	})
}
