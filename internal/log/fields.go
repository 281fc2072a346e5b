package log

import (
	"time"

	"github.com/google/uuid"
)

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldDuration    = "duration_ms"
	FieldHousehold   = "household_id"
	FieldAsOf        = "as_of"
	FieldMethod      = "method"
	FieldFrequency   = "payment_frequency"
	FieldDebtCount   = "debt_count"
	FieldCacheHit    = "cache_hit"
	FieldRPCMethod   = "rpc_method"
	FieldStatusCode  = "status_code"
	FieldBackend     = "backend"
	FieldAddr        = "addr"
	FieldAmountCents = "amount_cents"
)

// Components
const (
	ComponentApp     = "app"
	ComponentGRPC    = "grpc"
	ComponentPayoff  = "payoff"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
	ComponentAMQP    = "amqp"
	ComponentConfig  = "config"
)

// Operations
const (
	OpPlan     = "plan"
	OpCompare  = "compare"
	OpFetch    = "fetch"
	OpPublish  = "publish"
	OpMigrate  = "migrate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// Error categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeNotFound   = "not_found_error"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeNetwork    = "network_error"
	ErrorTypeAuth       = "auth_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields builds structured log fields
type LogFields map[string]any

// NewFields creates an empty field set
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message; nil errors are ignored
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

func (f LogFields) WithHousehold(id uuid.UUID) LogFields {
	f[FieldHousehold] = id.String()
	return f
}

// WithRequest adds the plan request parameters
func (f LogFields) WithRequest(asOf time.Time, method, frequency string) LogFields {
	f[FieldAsOf] = asOf.Format(time.DateOnly)
	f[FieldMethod] = method
	f[FieldFrequency] = frequency
	return f
}

func (f LogFields) WithDuration(d time.Duration) LogFields {
	f[FieldDuration] = d.Milliseconds()
	return f
}

func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts fields to slog key/value pairs
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
