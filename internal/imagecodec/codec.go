// Package imagecodec converts product images between local files, base64 text
// kept inside records, and data URIs used for display.
package imagecodec

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/domain"
)

// MediaType is fixed for every product image regardless of the source format.
const MediaType = "image/png"

const uriPrefix = "data:" + MediaType + ";base64,"

// Encode reads the raw bytes at a local, transient file reference and returns
// their base64 text.
func Encode(ref string) (string, error) {
	ref = strings.TrimPrefix(ref, "file://")
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", &domain.IOError{Path: ref, Err: errors.WithStack(err)}
	}
	zap.L().Debug("image encoded",
		zap.String("namespace", "codec"),
		zap.String("ref", ref),
		zap.String("size", bytes.Format(int64(len(data)))),
	)
	return EncodeBytes(data), nil
}

// EncodeBytes returns the standard base64 text of data.
func EncodeBytes(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode wraps a base64 payload into a data URI. An empty payload yields an
// empty URI; callers check for it before rendering.
func Decode(payload string) string {
	if payload == "" {
		return ""
	}
	return uriPrefix + payload
}

// Payload extracts the raw bytes back out of a data URI built by Decode.
func Payload(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, uriPrefix) {
		return nil, errors.Errorf("not a %s data uri", MediaType)
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, uriPrefix))
}

// Valid reports whether s is well formed base64 text.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
