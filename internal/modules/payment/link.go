package payment

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const qrSize = 512

// MockCheckoutURL embeds the order id and amount into a sandbox checkout URL.
// The amount is written in its shortest decimal form (19.99, 20).
func MockCheckoutURL(host, orderID string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s/#/pay?order=%s&amount=%s",
		strings.TrimRight(host, "/"),
		url.QueryEscape(orderID),
		url.QueryEscape(amount.String()))
}

// QRDataURL renders content as a PNG QR code wrapped in a data URL.
func QRDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
