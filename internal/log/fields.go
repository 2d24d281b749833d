package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldSessionID     = "session_id"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldYear          = "year"
	FieldMonth         = "month"
	FieldTransactionID = "transaction_id"
	FieldName          = "name"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldDate          = "date"
	FieldType          = "type"
	FieldStatement     = "statement"
	FieldRows          = "rows"
	FieldPath          = "path"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentCLI        = "cli"
	ComponentStorage    = "storage"
	ComponentAggregator = "aggregator"
	ComponentContext    = "data_context"
)

// Operations defines standard operation names
const (
	OpInitialize = "initialize"
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpList       = "list"
	OpSummary    = "summary"
	OpDump       = "dump"
	OpValidate   = "validate"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeNotFound   = "not_found_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithSessionID adds the data context session id
func (f LogFields) WithSessionID(id string) LogFields {
	f[FieldSessionID] = id
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMonth adds the year and month of a monthly query
func (f LogFields) WithMonth(year, month int) LogFields {
	f[FieldYear] = year
	f[FieldMonth] = month
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id int64, name, amount, category, date, txType string) LogFields {
	if id != 0 {
		f[FieldTransactionID] = id
	}
	f[FieldName] = name
	f[FieldAmount] = amount
	f[FieldCategory] = category
	f[FieldDate] = date
	f[FieldType] = txType
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
