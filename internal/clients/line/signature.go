package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader carries the signature of a webhook body.
const SignatureHeader = "X-Line-Signature"

// VerifySignature reports whether signature is the base64 HMAC-SHA256 of body
// keyed with the channel secret.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(decoded, Sign(channelSecret, body))
}

// Sign returns the raw HMAC-SHA256 of body keyed with the channel secret.
func Sign(channelSecret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	_, _ = mac.Write(body)
	return mac.Sum(nil)
}

// SignBase64 returns the header value the platform would send for body.
func SignBase64(channelSecret string, body []byte) string {
	return base64.StdEncoding.EncodeToString(Sign(channelSecret, body))
}
