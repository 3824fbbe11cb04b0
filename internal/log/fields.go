package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCustomerID = "customer_id"
	FieldDate       = "date"
	FieldPrice      = "price"
	FieldPoints     = "points"
	FieldRangeStart = "range_start"
	FieldRangeEnd   = "range_end"
	FieldCount      = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentRewards = "rewards"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentFeed    = "feed"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)
