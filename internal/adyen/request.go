package adyen

import "fmt"

// Channel values accepted on payment and payment-methods requests.
const (
	ChannelWeb     = "Web"
	ChannelIOS     = "iOS"
	ChannelAndroid = "Android"
)

const maxMetadataPairs = 20

// ApplicationInfo reports the integrating application to the provider.
type ApplicationInfo struct {
	MerchantApplication *ApplicationInfoEntry `json:"merchantApplication,omitempty"`
	ExternalPlatform    *ExternalPlatform     `json:"externalPlatform,omitempty"`
}

type ApplicationInfoEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ExternalPlatform struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Integrator string `json:"integrator,omitempty"`
}

// BrowserInfo carries the shopper's browser details for web payments.
type BrowserInfo struct {
	AcceptHeader string `json:"acceptHeader"`
	UserAgent    string `json:"userAgent"`
}

// PaymentMethodDetails is the provider's payment-method selector blob, e.g.
// {"type": "ideal", "issuer": "1121"}. It is forwarded opaque except for the
// type key.
type PaymentMethodDetails map[string]any

func NewPaymentMethodDetails(methodType string) PaymentMethodDetails {
	return PaymentMethodDetails{"type": methodType}
}

// NewIssuerDetails builds a selector for issuer-based methods (iDEAL,
// online banking variants).
func NewIssuerDetails(methodType, issuer string) PaymentMethodDetails {
	return PaymentMethodDetails{"type": methodType, "issuer": issuer}
}

func (d PaymentMethodDetails) Type() string {
	t, _ := Object(d).String("type")
	return t
}

// paymentFields are the fields shared by the payment and payment-session
// requests. Optional fields are pointers or omitempty values so an unset
// field is absent from the serialized JSON rather than null; the provider
// treats explicit null differently from absent.
type paymentFields struct {
	Amount          *Amount `json:"amount,omitempty"`
	MerchantAccount string  `json:"merchantAccount"`
	Reference       string  `json:"reference"`
	ReturnURL       string  `json:"returnUrl,omitempty"`

	Channel     string `json:"channel,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Origin      string `json:"origin,omitempty"`

	ShopperEmail     string `json:"shopperEmail,omitempty"`
	ShopperIP        string `json:"shopperIP,omitempty"`
	ShopperLocale    string `json:"shopperLocale,omitempty"`
	ShopperName      *Name  `json:"shopperName,omitempty"`
	ShopperReference string `json:"shopperReference,omitempty"`
	TelephoneNumber  string `json:"telephoneNumber,omitempty"`

	BillingAddress  *Address `json:"billingAddress,omitempty"`
	DeliveryAddress *Address `json:"deliveryAddress,omitempty"`

	LineItems []*LineItem       `json:"lineItems,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	ApplicationInfo *ApplicationInfo `json:"applicationInfo,omitempty"`
}

// SetLineItems attaches the collection's items to the request.
func (f *paymentFields) SetLineItems(items *LineItems) {
	if items == nil || items.Len() == 0 {
		f.LineItems = nil
		return
	}
	f.LineItems = items.Items()
}

// SetMetadata attaches caller metadata, capped at 20 key/value pairs.
func (f *paymentFields) SetMetadata(metadata map[string]string) error {
	if len(metadata) > maxMetadataPairs {
		return &ValidationError{
			Field:  "metadata",
			Reason: fmt.Sprintf("must contain at most %d pairs, got %d", maxMetadataPairs, len(metadata)),
		}
	}
	f.Metadata = metadata
	return nil
}

// PaymentRequest is the body of POST /payments: one payment attempt with a
// concrete payment-method selector. Constructed once, serialized, and
// discarded after the HTTP call.
type PaymentRequest struct {
	paymentFields
	PaymentMethod            PaymentMethodDetails `json:"paymentMethod"`
	BrowserInfo              *BrowserInfo         `json:"browserInfo,omitempty"`
	RedirectFromIssuerMethod string               `json:"redirectFromIssuerMethod,omitempty"`
	RedirectToIssuerMethod   string               `json:"redirectToIssuerMethod,omitempty"`
}

func NewPaymentRequest(amount *Amount, merchantAccount, reference, returnURL string, method PaymentMethodDetails) (*PaymentRequest, error) {
	if merchantAccount == "" {
		return nil, &ValidationError{Field: "merchantAccount", Reason: "missing"}
	}
	if err := maxLength("reference", reference, 80); err != nil {
		return nil, err
	}
	if len(method) == 0 {
		return nil, &ValidationError{Field: "paymentMethod", Reason: "missing"}
	}

	return &PaymentRequest{
		paymentFields: paymentFields{
			Amount:          amount,
			MerchantAccount: merchantAccount,
			Reference:       reference,
			ReturnURL:       returnURL,
		},
		PaymentMethod: method,
	}, nil
}

// PaymentSessionRequest is the body of POST /paymentSession, used by SDK
// based checkouts that let the provider drive method selection.
type PaymentSessionRequest struct {
	paymentFields
	AllowedPaymentMethods []string `json:"allowedPaymentMethods,omitempty"`
	SDKVersion            string   `json:"sdkVersion,omitempty"`
}

func NewPaymentSessionRequest(amount *Amount, merchantAccount, reference, returnURL string) (*PaymentSessionRequest, error) {
	if merchantAccount == "" {
		return nil, &ValidationError{Field: "merchantAccount", Reason: "missing"}
	}
	if err := maxLength("reference", reference, 80); err != nil {
		return nil, err
	}

	return &PaymentSessionRequest{
		paymentFields: paymentFields{
			Amount:          amount,
			MerchantAccount: merchantAccount,
			Reference:       reference,
			ReturnURL:       returnURL,
		},
	}, nil
}

// PaymentMethodsRequest is the body of POST /paymentMethods.
type PaymentMethodsRequest struct {
	MerchantAccount       string   `json:"merchantAccount"`
	Amount                *Amount  `json:"amount,omitempty"`
	Channel               string   `json:"channel,omitempty"`
	CountryCode           string   `json:"countryCode,omitempty"`
	AllowedPaymentMethods []string `json:"allowedPaymentMethods,omitempty"`
	BlockedPaymentMethods []string `json:"blockedPaymentMethods,omitempty"`
}

func NewPaymentMethodsRequest(merchantAccount string) (*PaymentMethodsRequest, error) {
	if merchantAccount == "" {
		return nil, &ValidationError{Field: "merchantAccount", Reason: "missing"}
	}
	return &PaymentMethodsRequest{MerchantAccount: merchantAccount}, nil
}

// PaymentDetailsRequest is the body of POST /payments/details, resuming a
// redirect or challenge flow with the provider-issued paymentData blob.
type PaymentDetailsRequest struct {
	Details     Object `json:"details"`
	PaymentData string `json:"paymentData,omitempty"`
}

func NewPaymentDetailsRequest(details Object) (*PaymentDetailsRequest, error) {
	if len(details) == 0 {
		return nil, &ValidationError{Field: "details", Reason: "missing"}
	}
	return &PaymentDetailsRequest{Details: details}, nil
}
