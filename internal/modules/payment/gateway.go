package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Gateway is the provider-agnostic interface a redirect-based payment
// adapter must implement.
type Gateway interface {
	// BuildPayURL creates the signed redirect URL the customer is sent to.
	BuildPayURL(req PayURLRequest) (*PayURLResponse, error)
	// VerifyReturn checks the secure hash on a return redirect's query.
	VerifyReturn(q url.Values) bool
}

// vnpay implements Gateway against the VNPay redirect flow. Requests are
// signed with HMAC-SHA512 over the sorted, URL-encoded parameter string.
type vnpay struct {
	tmnCode    string
	hashSecret string
	payURL     string
	returnURL  string
	now        func() time.Time
}

// NewVNPayGateway creates a VNPay gateway adapter.
func NewVNPayGateway(tmnCode, hashSecret, payURL, returnURL string) Gateway {
	return &vnpay{
		tmnCode:    tmnCode,
		hashSecret: hashSecret,
		payURL:     payURL,
		returnURL:  returnURL,
		now:        time.Now,
	}
}

func (g *vnpay) BuildPayURL(req PayURLRequest) (*PayURLResponse, error) {
	if req.InvoiceID <= 0 {
		return nil, fmt.Errorf("invoice_id is required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	now := g.now()
	txnRef := fmt.Sprintf("INV%d_%d", req.InvoiceID, now.UnixMilli())
	orderInfo := req.OrderInfo
	if orderInfo == "" {
		orderInfo = fmt.Sprintf("Thanh toan Invoice%d", req.InvoiceID)
	}
	clientIP := req.ClientIP
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", g.tmnCode)
	params.Set("vnp_Amount", fmt.Sprintf("%d", req.Amount*100)) // gateway minor units
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", txnRef)
	params.Set("vnp_OrderInfo", orderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", g.returnURL)
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))

	query := sortedEncode(params)
	signed := query + "&vnp_SecureHash=" + g.sign(query)

	return &PayURLResponse{PayURL: g.payURL + "?" + signed, TxnRef: txnRef}, nil
}

func (g *vnpay) VerifyReturn(q url.Values) bool {
	received := q.Get("vnp_SecureHash")
	if received == "" {
		return false
	}

	params := url.Values{}
	for key, vals := range q {
		if key == "vnp_SecureHash" || key == "vnp_SecureHashType" {
			continue
		}
		if strings.HasPrefix(key, "vnp_") && len(vals) > 0 {
			params.Set(key, vals[0])
		}
	}

	expected := g.sign(sortedEncode(params))
	return hmac.Equal([]byte(strings.ToLower(received)), []byte(expected))
}

func (g *vnpay) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(g.hashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// sortedEncode renders params as k=v pairs in key order, matching the
// canonical string the gateway signs.
func sortedEncode(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}
	return b.String()
}
