package upstream

// The commerce API serializes all identifiers as strings.

// OrderItemInput is one cart line submitted with an order
type OrderItemInput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateOrderRequest represents the request body for POST /order/create/
type CreateOrderRequest struct {
	Customer        string           `json:"customer"`
	Items           []OrderItemInput `json:"items"`
	PaymentMethod   string           `json:"payment_method"`
	ShippingAddress string           `json:"shipping_address"`
	City            string           `json:"city"`
	Province        string           `json:"province"`
	PostalCode      string           `json:"postal_code"`
	Phone           string           `json:"phone"`
}

// OrderItem is one line of an order as the API returns it
type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order represents an order owned by the commerce API
type Order struct {
	ID              string      `json:"id"`
	Customer        string      `json:"customer"`
	Items           []OrderItem `json:"items"`
	TotalPrice      float64     `json:"total_price"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	City            string      `json:"city"`
	Province        string      `json:"province"`
	PostalCode      string      `json:"postal_code"`
	Phone           string      `json:"phone"`
	PaymentMethod   string      `json:"payment_method"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

// CreatePaymentRequest asks the API to open a hosted-payment page for an order
type CreatePaymentRequest struct {
	OrderID string `json:"order_id"`
}

// CreatePaymentResponse carries the gateway's hosted-payment URL
type CreatePaymentResponse struct {
	PayURL string `json:"payUrl"`
}

// ConfirmPaymentResponse is the API's verdict after re-verifying the gateway
// redirect parameters server-side
type ConfirmPaymentResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatRequest represents the request body for POST /chatbot/
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse represents the chatbot's answer
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Review represents a product review owned by the commerce API
type Review struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar"`
	Rating     int    `json:"rating"`
	Date       string `json:"date"`
	Comment    string `json:"comment"`
	Helpful    int    `json:"helpful"`
}

// AddReviewRequest represents the request body for POST /review/add/
type AddReviewRequest struct {
	ProductID  string `json:"product_id"`
	CustomerID string `json:"customer_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// AdminResponse is a store-staff reply attached to a review
type AdminResponse struct {
	ID        string `json:"id"`
	ReviewID  string `json:"review_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// RegisterRequest represents the request body for POST /customer/register/
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// RegisterResponse carries the new customer's id
type RegisterResponse struct {
	ID string `json:"id"`
}

// LoginRequest represents the request body for POST /customer/login/
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Customer is the profile the API returns for a signed-in customer
type Customer struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// Product represents the catalog entry for one product
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
}
