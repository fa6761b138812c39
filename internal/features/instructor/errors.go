package instructor

import "errors"

var (
	ErrChargesDisabled     = errors.New("payout account cannot accept charges")
	ErrAccountNotConnected = errors.New("payout account not connected")
	ErrSellerNotFound      = errors.New("seller account not found")
	ErrProvider            = errors.New("payment provider request failed")
)
