package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldEntity      = "entity"
	FieldID          = "id"
	FieldAccountID   = "account_id"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldCount       = "count"
	FieldKey         = "key"
	FieldBackend     = "backend"
	FieldEventType   = "event_type"
	FieldDuration    = "duration_ms"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBook    = "book"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations name the commands the book accepts.
const (
	OpAddAccount        = "add_account"
	OpUpdateAccount     = "update_account"
	OpDeleteAccount     = "delete_account"
	OpAddTransaction    = "add_transaction"
	OpUpdateTransaction = "update_transaction"
	OpDeleteTransaction = "delete_transaction"
	OpTransfer          = "transfer"
	OpAddRecurring      = "add_recurring"
	OpAddGroup          = "add_group"
	OpUpdateGroup       = "update_group"
	OpDeleteGroup       = "delete_group"
	OpToggleGroup       = "toggle_group"
	OpMoveGroup         = "move_group"
	OpAddBudget         = "add_budget"
	OpUpdateBudget      = "update_budget"
	OpDeleteBudget      = "delete_budget"
	OpMoveBudget        = "move_budget"
	OpLoad              = "load"
	OpVerify            = "verify"
	OpExport            = "export"
	OpShutdown          = "shutdown"
	OpStartup           = "startup"
)

// ErrorTypes classify failures for log queries.
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInvariant     = "invariant_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntity names the record a command touched.
func (f LogFields) WithEntity(kind, id string) LogFields {
	f[FieldEntity] = kind
	if id != "" {
		f[FieldID] = id
	}
	return f
}

func (f LogFields) WithAmount(cents int64) LogFields {
	f[FieldAmountCents] = cents
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
