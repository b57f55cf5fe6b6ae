package payment

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// CallbackResult is the typed outcome of a gateway return redirect.
type CallbackResult struct {
	Success           bool   `json:"success"`
	InvoiceID         int64  `json:"invoice_id,omitempty"` // 0 when unknown
	Amount            int64  `json:"amount"`
	TxnRef            string `json:"txn_ref,omitempty"`
	ResponseCode      string `json:"response_code,omitempty"`
	TransactionStatus string `json:"transaction_status,omitempty"`
	BankCode          string `json:"bank_code,omitempty"`
	OrderInfo         string `json:"order_info,omitempty"`
	Message           string `json:"message"`
}

var (
	txnRefPattern    = regexp.MustCompile(`^INV(\d+)_`)
	orderInfoPattern = regexp.MustCompile(`Invoice(\d+)`)
)

// responseMessages maps VNPay response codes to user-facing messages.
var responseMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Giao dịch bị nghi ngờ gian lận",
	"09": "Thẻ/Tài khoản chưa đăng ký InternetBanking",
	"10": "Xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Đã hết hạn chờ thanh toán",
	"12": "Thẻ/Tài khoản bị khóa",
	"13": "Nhập sai mật khẩu xác thực giao dịch (OTP)",
	"24": "Khách hàng hủy giao dịch",
	"51": "Tài khoản không đủ số dư",
	"65": "Tài khoản đã vượt quá hạn mức giao dịch trong ngày",
	"75": "Ngân hàng thanh toán đang bảo trì",
	"79": "Nhập sai mật khẩu thanh toán quá số lần quy định",
}

// ParseReturn decodes a gateway return's query parameters into a typed
// result. It never fails: anything unparseable classifies as a failed
// payment with a readable message.
func ParseReturn(q url.Values) *CallbackResult {
	code := q.Get("vnp_ResponseCode")
	ref := q.Get("vnp_TxnRef")
	if code == "" || ref == "" {
		return &CallbackResult{
			Success: false,
			Message: "Không đọc được kết quả thanh toán",
		}
	}

	orderInfo := q.Get("vnp_OrderInfo")
	res := &CallbackResult{
		InvoiceID:         InvoiceIDFromTxnRef(ref, orderInfo),
		TxnRef:            ref,
		ResponseCode:      code,
		TransactionStatus: q.Get("vnp_TransactionStatus"),
		BankCode:          q.Get("vnp_BankCode"),
		OrderInfo:         orderInfo,
	}

	// The gateway reports amounts in minor units (x100).
	if raw, err := strconv.ParseInt(q.Get("vnp_Amount"), 10, 64); err == nil {
		res.Amount = raw / 100
	}

	// Both fields must agree for a success.
	res.Success = code == "00" && res.TransactionStatus == "00"
	if res.Success {
		res.Message = responseMessages["00"]
		return res
	}

	if msg, ok := responseMessages[code]; ok {
		res.Message = msg
	} else {
		res.Message = fmt.Sprintf("Thanh toán thất bại, mã lỗi: %s", code)
	}
	return res
}

// InvoiceIDFromTxnRef extracts the application invoice id from a gateway
// transaction ref of the form INV<id>_<millis>. Two fallbacks cover legacy
// refs: a loose INV-prefix split, then an "Invoice<id>" scan of the order
// info. Zero means unknown.
func InvoiceIDFromTxnRef(ref, orderInfo string) int64 {
	if m := txnRefPattern.FindStringSubmatch(ref); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return id
		}
	}

	if strings.HasPrefix(ref, "INV") {
		head := strings.SplitN(strings.TrimPrefix(ref, "INV"), "_", 2)[0]
		if id, err := strconv.ParseInt(head, 10, 64); err == nil && id > 0 {
			return id
		}
	}

	if m := orderInfoPattern.FindStringSubmatch(orderInfo); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return id
		}
	}
	return 0
}
