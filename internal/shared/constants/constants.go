package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderXRequestID     = "X-Request-ID"
	HeaderAcceptLanguage = "Accept-Language"

	ContentTypeJSON = "application/json"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers               = "users"
	TableCars                = "cars"
	TablePaymentAccounts     = "payment_accounts"
	TableSubscriptionPlans   = "subscription_plans"
	TableOwnerSubscriptions  = "owner_subscriptions"
	TablePaymentTransactions = "payment_transactions"
)
