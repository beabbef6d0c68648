package signature

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 13, 30, 0, 0, time.FixedZone("MSK", 3*60*60))

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mon, 19 Oct 2026 10:30:00 GMT", FormatDate(fixedNow))
}

func TestCanonicalString(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		uri      string
		body     string
		expected string
	}{
		{
			name:     "get has empty hash and content type",
			host:     "acme.megaplan.ru",
			uri:      "/BumsTaskApiV01/Task/list.api?Folder=all&Status=any&FavoritesOnly=0&Search=",
			expected: "GET\n\n\nMon, 19 Oct 2026 10:30:00 GMT\nacme.megaplan.ru/BumsTaskApiV01/Task/list.api?Folder=all&Status=any&FavoritesOnly=0&Search=",
		},
		{
			name:     "post carries body hash and form content type",
			host:     "acme.megaplan.ru",
			uri:      "/BumsTaskApiV01/Task/action.api",
			body:     "Action=act_done&Id=42",
			expected: "POST\n70dfd2cb1c910479ac42642617296fed\napplication/x-www-form-urlencoded\nMon, 19 Oct 2026 10:30:00 GMT\nacme.megaplan.ru/BumsTaskApiV01/Task/action.api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(tt.host, tt.uri, tt.body, fixedNow)
			assert.Equal(t, tt.expected, ctx.CanonicalString())
		})
	}
}

func TestGetIgnoresEverythingButDateHostAndURI(t *testing.T) {
	for _, host := range []string{"a.megaplan.ru", "b.megaplan.ru:8443"} {
		ctx := NewContext(host, "/BumsCommonApiV01/Favorite/list.api", "", fixedNow)
		assert.Equal(t, "GET", ctx.Method)
		assert.Empty(t, ctx.ContentMD5)
		assert.Empty(t, ctx.ContentType)
	}
}

func TestSign(t *testing.T) {
	get := NewContext("acme.megaplan.ru", "/BumsTaskApiV01/Task/list.api?Folder=all&Status=any&FavoritesOnly=0&Search=", "", fixedNow)
	assert.Equal(t, "NjliMTQ4YmUzNjQ5NzAxMzU2YjIxM2VhM2Q3NGZhMGI1ZDFkNzZlOQ==", get.Sign("S"))

	post := NewContext("acme.megaplan.ru", "/BumsTaskApiV01/Task/action.api", "Action=act_done&Id=42", fixedNow)
	assert.Equal(t, "MzdiNzRlOWJlZmI1YjJjNzJmZDlhOTg3MTUxNGViZjZmMTczZGZiMA==", post.Sign("S"))

	t.Run("deterministic", func(t *testing.T) {
		again := NewContext("acme.megaplan.ru", "/BumsTaskApiV01/Task/action.api", "Action=act_done&Id=42", fixedNow)
		assert.Equal(t, post.Sign("S"), again.Sign("S"))
		assert.NotEqual(t, post.Sign("S"), post.Sign("T"))
	})

	t.Run("signature is base64 of a hex sha1", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(post.Sign("S"))
		require.NoError(t, err)
		assert.Len(t, raw, 40)
		assert.Regexp(t, "^[0-9a-f]+$", string(raw))
	})

	t.Run("verify", func(t *testing.T) {
		assert.True(t, post.Verify("S", post.Sign("S")))
		assert.False(t, post.Verify("S", get.Sign("S")))
	})
}

func TestAuthorizationHeader(t *testing.T) {
	ctx := NewContext("acme.megaplan.ru", "/BumsTaskApiV01/Task/list.api?Folder=all&Status=any&FavoritesOnly=0&Search=", "", fixedNow)
	assert.Equal(t, "A:NjliMTQ4YmUzNjQ5NzAxMzU2YjIxM2VhM2Q3NGZhMGI1ZDFkNzZlOQ==", ctx.AuthorizationHeader("A", "S"))
}

func TestHashes(t *testing.T) {
	assert.Equal(t, "", ContentMD5(""))
	assert.Equal(t, "70dfd2cb1c910479ac42642617296fed", ContentMD5("Action=act_done&Id=42"))
	assert.Equal(t, "5ebe2294ecd0e0f08eab7690d2a6ee69", PasswordHash("secret"))
}
