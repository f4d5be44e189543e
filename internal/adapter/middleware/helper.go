package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"collateral-lending/pkg/id"
)

func bodyHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func nowUTC() time.Time { return time.Now().UTC() }

const keyPrefix = "idemp:ax"

func buildKey(method, path, callerID, requestID string) string {
	return strings.Join([]string{keyPrefix, strings.ToLower(method), path, callerID, requestID}, ":")
}

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

// validReqID accepts a lowercase UUID or 32 lowercase hex characters.
func validReqID(s string) bool {
	return reUUID.MatchString(s) || id.IsID32(s)
}

// parseAxRequestAt reads Ax-Request-At as unix seconds, unix milliseconds
// or an RFC3339 timestamp carrying a zone.
func parseAxRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	switch n, err := strconv.ParseInt(raw, 10, 64); {
	case raw == "":
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	case err == nil && n > epochMillisFloor:
		return time.UnixMilli(n).UTC(), nil
	case err == nil:
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errors.New(HeaderRequestAt + " must be unix seconds, unix millis or RFC3339 with zone")
	}
	return t.UTC(), nil
}

// values above this are taken as milliseconds (year 2001 in ms, year 33658 in s)
const epochMillisFloor = 1e12
