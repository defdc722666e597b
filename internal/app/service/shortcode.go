package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// generatedCodeBytes random bytes render as twice as many hex characters.
	generatedCodeBytes  = 3
	GeneratedCodeLength = generatedCodeBytes * 2

	MaxURLLength = 2048
)

var customCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// reservedCodes are single-segment paths served by fixed routes ahead of the code route.
var reservedCodes = map[string]struct{}{
	"healthz":   {},
	"dashboard": {},
}

var (
	errInvalidCustomCode = errors.New("custom code must be 6-8 alphanumeric characters")
	errReservedCode      = errors.New("custom code is reserved")
	errURLRequired       = errors.New("originalUrl is required")
)

// GenerateCode returns a random lowercase hex code of GeneratedCodeLength characters.
func GenerateCode() (string, error) {
	buf := make([]byte, generatedCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NormalizeCustomCode trims a caller-supplied code and checks it against the allowed shape.
func NormalizeCustomCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if !customCodePattern.MatchString(code) {
		return "", errInvalidCustomCode
	}
	if _, ok := reservedCodes[strings.ToLower(code)]; ok {
		return "", errReservedCode
	}
	return code, nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return errURLRequired
	}
	if len(raw) > MaxURLLength {
		return fmt.Errorf("url too long (max %d characters)", MaxURLLength)
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return errors.New("invalid url format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}
