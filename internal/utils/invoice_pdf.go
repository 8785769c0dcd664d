package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"trendnest_backend/internal/models"
)

// OrderQR encode l'URL de suivi d'une commande en PNG.
func OrderQR(baseURL string, order *models.Order) ([]byte, error) {
	tracking := fmt.Sprintf("%s/order_confirmation/%s", baseURL, order.ID.String())
	return qrcode.Encode(tracking, qrcode.Medium, 256)
}

// OrderQRBase64 rend le QR prêt à mettre dans un <img src="...">.
func OrderQRBase64(baseURL string, order *models.Order) (string, error) {
	png, err := OrderQR(baseURL, order)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderInvoicePDF charge la page facture du frontend dans un Chrome headless
// et l'imprime en PDF.
func RenderInvoicePDF(frontendURL string, order *models.Order, qrBase64 string) ([]byte, error) {
	q := url.Values{}
	q.Set("id", order.ID.String())
	q.Set("qr", qrBase64)
	fullURL := fmt.Sprintf("%s/invoice?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
