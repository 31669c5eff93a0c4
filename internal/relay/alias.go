package relay

// Alias normalizers map the request shape of an alias route onto the canonical Request.
// They carry no logic beyond renaming fields.

// NormalizeConvert is the identity, used by /convert and the coinbase aliases.
func NormalizeConvert(_ *Request) {}

// NormalizeWithdraw prefers "to" and falls back to "toAddress".
func NormalizeWithdraw(req *Request) {
	req.To = firstNonEmpty(req.To, req.ToAddress)
}

// NormalizeSendETH prefers "to" over "treasury" and treats "amount" as the ETH amount.
func NormalizeSendETH(req *Request) {
	req.To = firstNonEmpty(req.To, req.Treasury)
	req.AmountETH = req.Amount
}
