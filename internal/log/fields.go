package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldDuration      = "duration_ms"
	FieldTransactionID = "transaction_id"
	FieldTemplateID    = "template_id"
	FieldArchiveID     = "archive_id"
	FieldEventType     = "event_type"
	FieldType          = "type"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldMonth         = "month"
	FieldCount         = "count"
	FieldSheetsRef     = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentLedger    = "ledger"
	ComponentRecurring = "recurring"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentAdvice    = "advice"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreate      = "create"
	OpDelete      = "delete"
	OpArchive     = "archive"
	OpMaterialize = "materialize"
	OpExport      = "export"
	OpBackfill    = "backfill"
	OpAdvise      = "advise"
	OpStartup     = "startup"
	OpShutdown    = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
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

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the identifying fields of a ledger transaction.
func (f LogFields) WithTransaction(id, txType string, amount float64, category string) LogFields {
	f[FieldTransactionID] = id
	f[FieldType] = txType
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// WithEvent adds ledger event fields
func (f LogFields) WithEvent(eventType, id string) LogFields {
	f[FieldEventType] = eventType
	f[FieldTransactionID] = id
	return f
}

// WithMonth adds a "2006-01" month field
func (f LogFields) WithMonth(month string) LogFields {
	f[FieldMonth] = month
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
