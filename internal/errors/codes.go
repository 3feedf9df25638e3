package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The storefront maps these codes to UI behavior; the message field is only
// the default copy.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // sign-in required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // session token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed session token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Authorization (AUTHZ_) ====================
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // store-staff only surface

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationRequired     = "VALIDATION_REQUIRED" // required form fields missing

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND"

	// ==================== Session (SESSION_) ====================
	SessionNotFound = "SESSION_NOT_FOUND" // session expired or never existed

	// ==================== Cart (CART_) ====================
	CartEmpty           = "CART_EMPTY" // checkout needs items
	CartProductNotFound = "CART_PRODUCT_NOT_FOUND"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutNotStarted    = "CHECKOUT_NOT_STARTED"    // no wizard in progress
	CheckoutWrongStep     = "CHECKOUT_WRONG_STEP"     // operation out of order
	CheckoutInvalidMethod = "CHECKOUT_INVALID_METHOD" // unsupported payment method

	// ==================== Orders (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== Payments (PAYMENT_) ====================
	PaymentCreateFailed = "PAYMENT_CREATE_FAILED" // hosted-payment page did not open
	PaymentNotConfirmed = "PAYMENT_NOT_CONFIRMED" // gateway redirect rejected

	// ==================== Reviews (REVIEW_) ====================
	ReviewInvalidRating = "REVIEW_INVALID_RATING" // rating outside 1..5
	ReviewTooShort      = "REVIEW_TOO_SHORT"      // comment below minimum length

	// ==================== Chat (CHAT_) ====================
	ChatEmptyQuestion = "CHAT_EMPTY_QUESTION"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalUpstreamAPI = "INTERNAL_UPSTREAM_API" // commerce API unreachable
)
