package services

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"time"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// SignedURL génère une URL pré-signée à durée limitée pour un objet du bucket.
// Accepte indifféremment un nom d'objet ou une URL publique complète.
func (s *Images) SignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	reqParams := make(url.Values)

	key := objectPath
	if idx := strings.Index(objectPath, "/"+s.cfg.Bucket+"/"); idx >= 0 {
		key = objectPath[idx+len(s.cfg.Bucket)+2:]
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, duration, reqParams)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
