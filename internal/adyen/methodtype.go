package adyen

// Payment method identifiers used by the host checkout, mapped to and from
// the provider's payment method types below.
const (
	MethodAlipay         = "alipay"
	MethodApplePay       = "apple_pay"
	MethodBancontact     = "bancontact"
	MethodBlik           = "blik"
	MethodCard           = "card"
	MethodDirectDebit    = "direct_debit"
	MethodEPS            = "eps"
	MethodGiropay        = "giropay"
	MethodGooglePay      = "google_pay"
	MethodIDeal          = "ideal"
	MethodKlarnaPayLater = "klarna_pay_later"
	MethodMBWay          = "mb_way"
	MethodSofort         = "sofort"
	MethodSwish          = "swish"
	MethodTwint          = "twint"
	MethodVipps          = "vipps"
)

// methodTypes is the fixed bidirectional table between host payment method
// ids and provider payment method types. Never mutated at runtime. The
// redirect flow relies on every provider type having exactly one host id,
// which the table tests assert.
var methodTypes = map[string]string{
	MethodAlipay:         "alipay",
	MethodApplePay:       "applepay",
	MethodBancontact:     "bcmc",
	MethodBlik:           "blik",
	MethodCard:           "scheme",
	MethodDirectDebit:    "sepadirectdebit",
	MethodEPS:            "eps",
	MethodGiropay:        "giropay",
	MethodGooglePay:      "paywithgoogle",
	MethodIDeal:          "ideal",
	MethodKlarnaPayLater: "klarna",
	MethodMBWay:          "mbway",
	MethodSofort:         "directEbanking",
	MethodSwish:          "swish",
	MethodTwint:          "twint",
	MethodVipps:          "vipps",
}

// MethodToProviderType maps a host payment method id to the provider's
// payment method type. Unknown input returns ("", false).
func MethodToProviderType(method string) (string, bool) {
	t, ok := methodTypes[method]
	return t, ok
}

// ProviderTypeToMethod is the reverse lookup: the first host method id whose
// provider type matches, or ("", false) for unknown input.
func ProviderTypeToMethod(providerType string) (string, bool) {
	for method, t := range methodTypes {
		if t == providerType {
			return method, true
		}
	}
	return "", false
}

// MethodTypes returns a copy of the table for invariant checks.
func MethodTypes() map[string]string {
	out := make(map[string]string, len(methodTypes))
	for k, v := range methodTypes {
		out[k] = v
	}
	return out
}
