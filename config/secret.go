package config

import (
	"crypto/rand"
	"encoding/base64"
)

// randomSecret returns a per-process signing secret
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("config: crypto/rand unavailable: " + err.Error())
	}
	return base64.StdEncoding.EncodeToString(b)
}
