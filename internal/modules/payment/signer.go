package payment

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Credentials is the merchant signing material.
type Credentials struct {
	MerchantID    string
	PublicKey     string
	PrivateKeyPEM string
	// PublicKeyPEM is optional; when set, Verify can check our own signatures.
	PublicKeyPEM string
}

// Signer builds the canonical string for an order and signs it two ways.
// It holds only static configuration and is safe for concurrent use.
type Signer struct {
	merchantID string
	publicKey  string
	hmacKey    []byte
	privateKey *rsa.PrivateKey
	verifyKey  *rsa.PublicKey
}

// signPKCS1v15 is swapped in tests to exercise the digest fallback.
var signPKCS1v15 = rsa.SignPKCS1v15

// NewSigner parses the key material. Any parse failure is a configuration error.
func NewSigner(c Credentials) (*Signer, error) {
	if c.MerchantID == "" || c.PublicKey == "" || c.PrivateKeyPEM == "" {
		return nil, ErrSigningUnavailable
	}
	priv, err := ParsePrivateKey(c.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	s := &Signer{
		merchantID: c.MerchantID,
		publicKey:  c.PublicKey,
		hmacKey:    []byte(stripLineBreaks(strings.TrimSpace(c.PrivateKeyPEM))),
		privateKey: priv,
	}
	if c.PublicKeyPEM != "" {
		pub, err := ParsePublicKey(c.PublicKeyPEM)
		if err != nil {
			return nil, err
		}
		s.verifyKey = pub
	}
	return s, nil
}

func (s *Signer) MerchantID() string { return s.merchantID }

func (s *Signer) PublicKey() string { return s.publicKey }

// Canonical concatenates merchant id, order id, two-decimal amount, currency
// and public key with no separators. It is the exact byte sequence signed.
func (s *Signer) Canonical(orderID string, amount decimal.Decimal, currency string) string {
	return s.merchantID + orderID + amount.StringFixed(2) + currency + s.publicKey
}

// HMAC is the hex HMAC-SHA512 of msg keyed with the private key PEM sans line breaks.
func (s *Signer) HMAC(msg string) string {
	mac := hmac.New(sha512.New, s.hmacKey)
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign returns a base64 RSA PKCS#1 v1.5 signature, SHA-512 first and SHA-256
// if the stronger digest is rejected.
func (s *Signer) Sign(msg string) (string, error) {
	h512 := sha512.Sum512([]byte(msg))
	sig, err := signPKCS1v15(rand.Reader, s.privateKey, crypto.SHA512, h512[:])
	if err != nil {
		h256 := sha256.Sum256([]byte(msg))
		sig, err = signPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, h256[:])
		if err != nil {
			return "", fmt.Errorf("rsa sign: %w", err)
		}
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a signature produced by Sign against the configured public key.
func (s *Signer) Verify(msg, signature string) error {
	if s.verifyKey == nil {
		return errors.New("no rsa public key configured")
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	h512 := sha512.Sum512([]byte(msg))
	if err := rsa.VerifyPKCS1v15(s.verifyKey, crypto.SHA512, h512[:], sig); err == nil {
		return nil
	}
	h256 := sha256.Sum256([]byte(msg))
	return rsa.VerifyPKCS1v15(s.verifyKey, crypto.SHA256, h256[:], sig)
}

// Payload builds the signed purchase body for req. req must already be validated.
func (s *Signer) Payload(req PurchaseRequest) (*PurchasePayload, error) {
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	items := req.Items
	if len(items) == 0 {
		items = []byte("[]")
	}
	canonical := s.Canonical(req.OrderID, *req.Amount, currency)
	signature, err := s.Sign(canonical)
	if err != nil {
		return nil, err
	}
	return &PurchasePayload{
		MerchantID:    s.merchantID,
		OrderID:       req.OrderID,
		Amount:        req.Amount.StringFixed(2),
		Currency:      currency,
		Items:         items,
		ReturnURL:     req.ReturnURL,
		CancelURL:     req.CancelURL,
		Description:   req.Description,
		PublicKey:     s.publicKey,
		Signature:     signature,
		SignatureType: "RSA",
		HMAC:          s.HMAC(canonical),
		Canonical:     canonical,
	}, nil
}

// ParsePrivateKey accepts PKCS#1 ("RSA PRIVATE KEY") or PKCS#8 ("PRIVATE KEY") PEM.
func ParsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(pemText)))
	if block == nil {
		return nil, errors.New("rsa private key: no PEM block found")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("rsa private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("rsa private key: not an RSA key")
	}
	return key, nil
}

// ParsePublicKey accepts PKIX ("PUBLIC KEY") or PKCS#1 ("RSA PUBLIC KEY") PEM.
func ParsePublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(pemText)))
	if block == nil {
		return nil, errors.New("rsa public key: no PEM block found")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("rsa public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("rsa public key: not an RSA key")
	}
	return key, nil
}

func stripLineBreaks(s string) string {
	return strings.NewReplacer("\r\n", "", "\n", "").Replace(s)
}
