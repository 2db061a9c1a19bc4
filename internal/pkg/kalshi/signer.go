package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	HeaderAccessKey       = "KALSHI-ACCESS-KEY"
	HeaderAccessTimestamp = "KALSHI-ACCESS-TIMESTAMP"
	HeaderAccessSignature = "KALSHI-ACCESS-SIGNATURE"
)

// ParsePrivateKey accepts PEM (PKCS#1, PKCS#8, encrypted PEM), OpenSSH, or base64 DER.
// Environment values often carry escaped newlines, so literal `\n` is expanded first.
func ParsePrivateKey(raw string, passphrase string) (*rsa.PrivateKey, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, `\n`, "\n"))
	if raw == "" {
		return nil, errors.New("private key is empty")
	}

	key, err := ssh.ParseRawPrivateKey([]byte(raw))
	if err == nil {
		// a passphrase given for an unencrypted key is ignored
		return asRSA(key)
	}
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		if passphrase == "" {
			return nil, errors.New("private key is encrypted and no passphrase was given")
		}
		key, err = ssh.ParseRawPrivateKeyWithPassphrase([]byte(raw), []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("could not decrypt private key: %w", err)
		}
		return asRSA(key)
	}

	der, decodeErr := base64.StdEncoding.DecodeString(raw)
	if decodeErr != nil {
		return nil, fmt.Errorf("could not parse private key as PEM/OpenSSH/DER: %w", err)
	}
	if k, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return asRSA(k)
	}
	if k, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return k, nil
	}
	return nil, errors.New("could not parse private key as PEM/OpenSSH/DER")
}

func asRSA(key interface{}) (*rsa.PrivateKey, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported private key type %T, RSA required", key)
	}
}

// Signer produces the Kalshi request authentication headers.
type Signer struct {
	KeyID string
	Key   *rsa.PrivateKey
	Now   func() time.Time
}

// Message is the byte string that gets signed: millisecond timestamp, method, path.
func Message(tsMillis int64, method, path string) []byte {
	return []byte(strconv.FormatInt(tsMillis, 10) + strings.ToUpper(method) + path)
}

// Headers signs method+path with RSA-PSS over SHA-256.
func (s *Signer) Headers(method, path string) (map[string]string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := now().UnixMilli()

	digest := sha256.Sum256(Message(ts, method, path))
	sig, err := rsa.SignPSS(rand.Reader, s.Key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	return map[string]string{
		HeaderAccessKey:       s.KeyID,
		HeaderAccessTimestamp: strconv.FormatInt(ts, 10),
		HeaderAccessSignature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}
