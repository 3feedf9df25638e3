package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the commerce API that owns all storefront business data.
// The gateway never decides payment outcomes itself; confirm calls forward
// the gateway redirect parameters verbatim and trust this API's verdict.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new commerce API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Chatbot asks the support chatbot a question
func (c *Client) Chatbot(ctx context.Context, question string) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.post(ctx, "/chatbot/", ChatRequest{Question: question}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder submits a new order
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.post(ctx, "/order/create/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches an order by id
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.get(ctx, fmt.Sprintf("/order/%s/", url.PathEscape(orderID)), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MomoCreatePayment opens a MoMo hosted-payment page for an order
func (c *Client) MomoCreatePayment(ctx context.Context, orderID string) (*CreatePaymentResponse, error) {
	return c.createPayment(ctx, "/order/momo/create-payment/", orderID)
}

// VnpayCreatePayment opens a VNPAY hosted-payment page for an order
func (c *Client) VnpayCreatePayment(ctx context.Context, orderID string) (*CreatePaymentResponse, error) {
	return c.createPayment(ctx, "/order/vnpay/create-payment/", orderID)
}

func (c *Client) createPayment(ctx context.Context, endpoint, orderID string) (*CreatePaymentResponse, error) {
	var resp CreatePaymentResponse
	if err := c.post(ctx, endpoint, CreatePaymentRequest{OrderID: orderID}, &resp); err != nil {
		return nil, err
	}
	if resp.PayURL == "" {
		return nil, fmt.Errorf("%w: empty payUrl", ErrRejected)
	}
	return &resp, nil
}

// MomoConfirmPayment forwards the MoMo redirect parameters for verification
func (c *Client) MomoConfirmPayment(ctx context.Context, params url.Values) (*ConfirmPaymentResponse, error) {
	return c.confirmPayment(ctx, "/order/momo/confirm-payment/", params)
}

// VnpayConfirmPayment forwards the VNPAY redirect parameters for verification
func (c *Client) VnpayConfirmPayment(ctx context.Context, params url.Values) (*ConfirmPaymentResponse, error) {
	return c.confirmPayment(ctx, "/order/vnpay/confirm-payment/", params)
}

func (c *Client) confirmPayment(ctx context.Context, endpoint string, params url.Values) (*ConfirmPaymentResponse, error) {
	// The API re-verifies the gateway signature over the exact parameter set,
	// so forward every key untouched.
	payload := make(map[string]string, len(params))
	for key := range params {
		payload[key] = params.Get(key)
	}

	var resp ConfirmPaymentResponse
	if err := c.post(ctx, endpoint, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return &resp, fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	return &resp, nil
}

// ProductReviews lists the reviews of a product
func (c *Client) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	var reviews []Review
	if err := c.get(ctx, fmt.Sprintf("/review/get_by_id/%s/", url.PathEscape(productID)), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AddReview creates a review for a product
func (c *Client) AddReview(ctx context.Context, req AddReviewRequest) (*Review, error) {
	var review Review
	if err := c.post(ctx, "/review/add/", req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewResponses lists the admin responses attached to a review
func (c *Client) ReviewResponses(ctx context.Context, reviewID string) ([]AdminResponse, error) {
	var responses []AdminResponse
	if err := c.get(ctx, fmt.Sprintf("/review/%s/responses/", url.PathEscape(reviewID)), &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// RegisterCustomer creates a customer account
func (c *Client) RegisterCustomer(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.post(ctx, "/customer/register/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoginCustomer authenticates a customer and returns the profile
func (c *Client) LoginCustomer(ctx context.Context, req LoginRequest) (*Customer, error) {
	var customer Customer
	if err := c.post(ctx, "/customer/login/", req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetProduct fetches a catalog product by id
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := c.get(ctx, fmt.Sprintf("/products/%s/", url.PathEscape(productID)), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, into interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.doRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body), into)
}

func (c *Client) get(ctx context.Context, endpoint string, into interface{}) error {
	return c.doRequest(ctx, http.MethodGet, endpoint, nil, into)
}

// doRequest performs an HTTP request against the commerce API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body io.Reader, into interface{}) error {
	reqURL := strings.TrimRight(c.config.BaseURL, "/") + endpoint

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errPayload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
			Detail  string `json:"detail"`
		}
		if err := json.Unmarshal(respBody, &errPayload); err == nil {
			switch {
			case errPayload.Error != "":
				apiErr.Message = errPayload.Error
			case errPayload.Message != "":
				apiErr.Message = errPayload.Message
			case errPayload.Detail != "":
				apiErr.Message = errPayload.Detail
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if into == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, into); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
