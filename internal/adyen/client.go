package adyen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Environment selects the provider endpoint family.
type Environment string

const (
	EnvironmentTest Environment = "test"
	EnvironmentLive Environment = "live"
)

// APIVersion is the checkout API version this client speaks.
const APIVersion = "v68"

const (
	testBaseURL       = "https://checkout-test.adyen.com"
	liveBaseURLFormat = "https://%s-checkout-live.adyenpayments.com/checkout"
)

// Config holds what the client needs to reach the provider. The live URL
// prefix is merchant-specific and mandatory for the live environment.
type Config struct {
	Environment     Environment
	APIKey          string
	MerchantAccount string
	LiveURLPrefix   string
	Timeout         time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) MerchantAccount() string {
	return c.cfg.MerchantAccount
}

// endpoint builds the target URL for an API method. A live environment
// without a configured URL prefix fails here, before any I/O.
func (c *Client) endpoint(method string) (string, error) {
	switch c.cfg.Environment {
	case EnvironmentTest:
		return fmt.Sprintf("%s/%s/%s", testBaseURL, APIVersion, method), nil
	case EnvironmentLive:
		if c.cfg.LiveURLPrefix == "" {
			return "", &ConfigurationError{
				Message: "live environment requires a URL prefix, none configured",
			}
		}
		base := fmt.Sprintf(liveBaseURLFormat, c.cfg.LiveURLPrefix)
		return fmt.Sprintf("%s/%s/%s", base, APIVersion, method), nil
	default:
		return "", &ConfigurationError{
			Message: fmt.Sprintf("unknown environment %q", c.cfg.Environment),
		}
	}
}

func (c *Client) Payments(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	doc, err := c.send(ctx, "payments", req)
	if err != nil {
		return nil, err
	}
	return ParsePaymentResponse(doc)
}

func (c *Client) PaymentDetails(ctx context.Context, req *PaymentDetailsRequest) (*PaymentDetailsResponse, error) {
	doc, err := c.send(ctx, "payments/details", req)
	if err != nil {
		return nil, err
	}
	return ParsePaymentDetailsResponse(doc)
}

func (c *Client) PaymentMethods(ctx context.Context, req *PaymentMethodsRequest) (*PaymentMethodsResponse, error) {
	doc, err := c.send(ctx, "paymentMethods", req)
	if err != nil {
		return nil, err
	}
	return ParsePaymentMethodsResponse(doc)
}

func (c *Client) PaymentSession(ctx context.Context, req *PaymentSessionRequest) (*PaymentSessionResponse, error) {
	doc, err := c.send(ctx, "paymentSession", req)
	if err != nil {
		return nil, err
	}
	return ParsePaymentSessionResponse(doc)
}

// send POSTs the request body and decodes the reply into a raw object,
// dispatching the provider's error shapes before the caller attempts schema
// validation of the success shape. No retry policy lives here; retries, if
// any, are the caller's responsibility.
func (c *Client) send(ctx context.Context, method string, reqBody any) (Object, error) {
	url, err := c.endpoint(method)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Err: err}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(body), Err: err}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	doc := Object(obj)
	if err := dispatchErrorShape(doc, resp.StatusCode); err != nil {
		return nil, err
	}

	return doc, nil
}

// dispatchErrorShape recognizes the two error bodies the provider sends:
// the structured `{status, errorCode, errorType, message}` exception and
// the legacy `{"error": {...}}` object. Anything else on a non-2xx status
// is malformed.
func dispatchErrorShape(doc Object, statusCode int) error {
	if errorCode, ok := doc.String("errorCode"); ok {
		message, _ := doc.String("message")
		errorType, _ := doc.String("errorType")
		status, _ := doc.Int64("status")
		return &ServiceException{
			Status:    int(status),
			ErrorCode: errorCode,
			ErrorType: errorType,
			Message:   message,
		}
	}

	if errObj, ok := doc.Object("error"); ok {
		code, _ := errObj.String("code")
		message, _ := errObj.String("message")
		requestedURI, _ := errObj.String("requestedUri")
		return &GatewayError{
			Code:         code,
			Message:      message,
			RequestedURI: requestedURI,
		}
	}

	if statusCode < 200 || statusCode > 299 {
		raw, _ := json.Marshal(doc)
		return &ProtocolError{StatusCode: statusCode, Body: string(raw)}
	}

	return nil
}
