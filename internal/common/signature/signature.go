// Package signature implements the Megaplan request signing scheme. A request is
// authenticated by an HMAC-SHA1 over a canonical string built from the method,
// the MD5 of the urlencoded body, the content type, the RFC-822 date and the
// target host and URI.
package signature

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// FormContentType is the content type of every signed POST body.
const FormContentType = "application/x-www-form-urlencoded"

// Context is everything that goes into one request signature. It is built once
// per call and the same value feeds both the signature and the request headers,
// so the Date header always matches the signed date byte for byte.
type Context struct {
	Method      string // GET or POST
	ContentMD5  string // empty for GET
	ContentType string // empty for GET
	Date        string // RFC-822
	Host        string // e.g. "acme.megaplan.ru"
	URI         string // path and query, starting with "/"
}

// NewContext builds the signing context of a request. A non-empty body makes it
// a POST with content hash and form content type; an empty body is a GET and
// both fields stay empty.
func NewContext(host, uri, body string, now time.Time) Context {
	ctx := Context{
		Method: http.MethodGet,
		Date:   FormatDate(now),
		Host:   host,
		URI:    uri,
	}
	if body != "" {
		ctx.Method = http.MethodPost
		ctx.ContentMD5 = ContentMD5(body)
		ctx.ContentType = FormContentType
	}
	return ctx
}

// CanonicalString returns the string the signature is computed over:
// method, content md5, content type, date and host+uri joined by newlines.
func (c Context) CanonicalString() string {
	return strings.Join([]string{
		c.Method,
		c.ContentMD5,
		c.ContentType,
		c.Date,
		c.Host + c.URI,
	}, "\n")
}

// Sign computes the request signature with the given secret key.
func (c Context) Sign(secretKey string) string {
	return Sign(secretKey, c.CanonicalString())
}

// AuthorizationHeader returns the X-Authorization header value "<accessId>:<signature>".
func (c Context) AuthorizationHeader(accessID, secretKey string) string {
	return accessID + ":" + c.Sign(secretKey)
}

// Sign is HMAC-SHA1 of canonical keyed by secretKey, hex encoded and then
// base64 encoded.
func Sign(secretKey, canonical string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(canonical))
	hexDigest := hex.EncodeToString(mac.Sum(nil))
	return strings.TrimSpace(base64.StdEncoding.EncodeToString([]byte(hexDigest)))
}

// FormatDate renders t as an RFC-822 date in GMT, e.g. "Mon, 02 Jan 2006 15:04:05 GMT".
func FormatDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// ContentMD5 returns the hex MD5 of the urlencoded body, or "" for an empty body.
func ContentMD5(body string) string {
	if body == "" {
		return ""
	}
	return MD5Hex(body)
}

// PasswordHash is the form in which the password is sent to the authorize endpoint.
func PasswordHash(password string) string {
	return MD5Hex(password)
}

// MD5Hex returns the lowercase hex MD5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether signature is valid for ctx under secretKey.
func (c Context) Verify(secretKey, signature string) bool {
	return hmac.Equal([]byte(c.Sign(secretKey)), []byte(signature))
}
