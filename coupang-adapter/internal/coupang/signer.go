package coupang

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// signedDateLayout renders YYMMDDTHHMMSSZ.
const signedDateLayout = "060102T150405Z"

// Signer produces CEA HMAC-SHA256 Authorization header values.
type Signer struct {
	accessKey string
	secretKey []byte
	now       func() time.Time
}

// NewSigner builds a signer from creds. A nil clock defaults to time.Now.
func NewSigner(creds Credentials, now func() time.Time) (*Signer, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{
		accessKey: creds.AccessKey,
		secretKey: []byte(creds.SecretKey),
		now:       now,
	}, nil
}

// Sign signs a request at the current clock time. query is the exact wire
// query string without the leading '?', empty when there is none.
func (s *Signer) Sign(method, path, query string) string {
	return s.SignAt(method, path, query, s.now())
}

// SignAt signs a request at t.
func (s *Signer) SignAt(method, path, query string, t time.Time) string {
	signedDate := t.UTC().Format(signedDateLayout)

	mac := hmac.New(sha256.New, s.secretKey)
	mac.Write([]byte(signedDate + method + path + query))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("CEA algorithm=HmacSHA256, access-key=%s, signed-date=%s, signature=%s",
		s.accessKey, signedDate, signature)
}
