package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/minio/minio-go/v7"

	"trendnest_backend/internal/config"
)

// Images stocke les visuels produits et les factures PDF dans MinIO.
type Images struct {
	client *minio.Client
	cfg    config.MinIOConfig
}

func NewImages(client *minio.Client, cfg config.MinIOConfig) *Images {
	return &Images{client: client, cfg: cfg}
}

// UploadProductImage pousse le fichier et rend l'URL publique de l'objet.
func (s *Images) UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := "products/" + file.Filename
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectName), nil
}

// UploadInvoice archive une facture PDF et rend le nom de l'objet.
func (s *Images) UploadInvoice(ctx context.Context, orderID string, pdf []byte) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}
	objectName := "invoices/" + orderID + ".pdf"
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, bytesReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", err
	}
	return objectName, nil
}
