package checkout

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderRef string) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderRef string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/order?ref=%s", g.BaseURL, url.QueryEscape(orderRef))
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
