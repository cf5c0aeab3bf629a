package paypal

import (
	"github.com/code19m/errx"
	jsoniter "github.com/json-iterator/go"
)

// Order statuses reported by the PayPal Orders API.
const (
	StatusCreated             = "CREATED"
	StatusSaved               = "SAVED"
	StatusApproved            = "APPROVED"
	StatusVoided              = "VOIDED"
	StatusCompleted           = "COMPLETED"
	StatusPayerActionRequired = "PAYER_ACTION_REQUIRED"
)

// Order intents.
const (
	IntentCapture   = "CAPTURE"
	IntentAuthorize = "AUTHORIZE"
)

const codeInvalidOrderPayload = "INVALID_PAYPAL_ORDER_PAYLOAD"

// Link is a HATEOAS link returned with an order.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the raw upstream order representation. It is carried verbatim;
// nested objects are kept as decoded JSON and never interpreted here.
type Order struct {
	ID            string           `json:"id"`
	Status        string           `json:"status"`
	Intent        string           `json:"intent"`
	PaymentSource map[string]any   `json:"payment_source,omitempty" mask:"true"`
	PurchaseUnits []map[string]any `json:"purchase_units,omitempty"`
	Payer         map[string]any   `json:"payer,omitempty" mask:"true"`
	CreateTime    string           `json:"create_time,omitempty"`
	Links         []Link           `json:"links,omitempty"`
}

// DecodeOrder parses an upstream order body.
func DecodeOrder(body []byte) (Order, error) {
	var o Order
	if err := jsoniter.ConfigFastest.Unmarshal(body, &o); err != nil {
		return Order{}, errx.Wrap(err, errx.WithCode(codeInvalidOrderPayload))
	}
	return o, nil
}

// Encode renders the order back to JSON.
func (o Order) Encode() ([]byte, error) {
	b, err := jsoniter.ConfigFastest.Marshal(o)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(codeInvalidOrderPayload))
	}
	return b, nil
}
