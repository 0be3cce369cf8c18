package adyen

import "encoding/json"

// ActionInformation is the provider's follow-up instruction for the
// shopper (redirect, QR code, 3DS challenge). Kept raw-first: the typed
// fields cover what this service consumes, Raw carries the full object for
// the front end.
type ActionInformation struct {
	Raw Object

	Type              string
	URL               string
	Method            string
	PaymentMethodType string
	PaymentData       string
}

func parseAction(o Object) *ActionInformation {
	a := &ActionInformation{Raw: o}
	a.Type, _ = o.String("type")
	a.URL, _ = o.String("url")
	a.Method, _ = o.String("method")
	a.PaymentMethodType, _ = o.String("paymentMethodType")
	a.PaymentData, _ = o.String("paymentData")
	return a
}

// MarshalJSON projects the untouched provider object, so fields this
// service does not model reach the front end intact.
func (a *ActionInformation) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Raw)
}

// ResponseCommon are the fields shared by the payment and payment-details
// responses. Constructed exclusively from validated inbound JSON, never
// hand-built for a request; the raw decoded body is always retained.
type ResponseCommon struct {
	Raw Object

	ResultCode    ResultCode
	RefusalReason string
	PSPReference  string
	PaymentData   string
	Action        *ActionInformation
}

func parseResponseCommon(doc Object) ResponseCommon {
	f := ResponseCommon{Raw: doc}

	if v, ok := doc.String("resultCode"); ok {
		f.ResultCode = ResultCode(v)
	}
	f.RefusalReason, _ = doc.String("refusalReason")
	f.PSPReference, _ = doc.String("pspReference")
	f.PaymentData, _ = doc.String("paymentData")
	if action, ok := doc.Object("action"); ok {
		f.Action = parseAction(action)
	}

	return f
}

// PaymentResponse is the typed reply to POST /payments.
type PaymentResponse struct {
	ResponseCommon
}

func ParsePaymentResponse(doc Object) (*PaymentResponse, error) {
	if err := validateSchema(schemaPaymentResponse, doc); err != nil {
		return nil, err
	}
	return &PaymentResponse{ResponseCommon: parseResponseCommon(doc)}, nil
}

// PaymentDetailsResponse is the typed reply to POST /payments/details. The
// contract is the same shape as the payment response.
type PaymentDetailsResponse struct {
	ResponseCommon
}

func ParsePaymentDetailsResponse(doc Object) (*PaymentDetailsResponse, error) {
	if err := validateSchema(schemaPaymentResponse, doc); err != nil {
		return nil, err
	}
	return &PaymentDetailsResponse{ResponseCommon: parseResponseCommon(doc)}, nil
}

// PaymentSessionResponse is the typed reply to POST /paymentSession: an
// opaque session blob the SDK checkout consumes.
type PaymentSessionResponse struct {
	Raw Object

	PaymentSession string
}

func ParsePaymentSessionResponse(doc Object) (*PaymentSessionResponse, error) {
	session, ok := doc.String("paymentSession")
	if !ok {
		return nil, &SchemaValidationError{
			Schema:   "payment-session-response",
			Failures: []string{"paymentSession is required"},
		}
	}
	return &PaymentSessionResponse{Raw: doc, PaymentSession: session}, nil
}

// Issuer is one selectable issuer of an issuer-based payment method.
type Issuer struct {
	ID   string
	Name string
}

// PaymentMethod is one available method from the payment-methods listing.
type PaymentMethod struct {
	Raw Object

	Type    string
	Name    string
	Issuers []Issuer
}

// PaymentMethodsResponse is the typed reply to POST /paymentMethods.
type PaymentMethodsResponse struct {
	Raw Object

	PaymentMethods []PaymentMethod
}

func ParsePaymentMethodsResponse(doc Object) (*PaymentMethodsResponse, error) {
	if err := validateSchema(schemaPaymentMethodsResponse, doc); err != nil {
		return nil, err
	}

	resp := &PaymentMethodsResponse{Raw: doc}

	methods, _ := doc.Objects("paymentMethods")
	for _, m := range methods {
		pm := PaymentMethod{Raw: m}
		pm.Type, _ = m.String("type")
		pm.Name, _ = m.String("name")

		if issuers, ok := m.Objects("issuers"); ok {
			for _, iss := range issuers {
				id, _ := iss.String("id")
				name, _ := iss.String("name")
				pm.Issuers = append(pm.Issuers, Issuer{ID: id, Name: name})
			}
		}

		resp.PaymentMethods = append(resp.PaymentMethods, pm)
	}

	return resp, nil
}
