package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/webmark/internal/domain"
	"github.com/MrSnakeDoc/webmark/internal/utils"
)

// DeviceHeader optionally identifies the clicking device.
const DeviceHeader = "device-id"

// deviceFingerprintLen is the number of hex characters kept from the digest.
const deviceFingerprintLen = 16

// DeviceID returns the device-id header, or a stable fingerprint of the
// user agent and client IP when the header is absent or longer than
// domain.MaxDeviceIDLength.
func DeviceID(r *http.Request, trustProxy bool) string {
	if id := strings.TrimSpace(r.Header.Get(DeviceHeader)); id != "" && len(id) <= domain.MaxDeviceIDLength {
		return id
	}
	sum := sha256.Sum256([]byte(r.UserAgent() + "|" + utils.ClientIP(r, trustProxy)))
	return hex.EncodeToString(sum[:])[:deviceFingerprintLen]
}
