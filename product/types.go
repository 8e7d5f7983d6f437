package product

// TransactionOperation names how a position rule mutates a position on
// transaction posting (spec.md §4.5).
type TransactionOperation string

const (
	Credit TransactionOperation = "credit"
	Debit  TransactionOperation = "debit"
	Set    TransactionOperation = "set"
)

// DataType names the storage kind of a non-positional property.
type DataType string

const (
	DecimalType DataType = "decimal"
	StringType  DataType = "string"
	BooleanType DataType = "boolean"
)

// Timing names when a scheduled or instalment transaction is generated
// relative to the other work done on a value date.
type Timing string

const (
	StartOfDay Timing = "start_of_day"
	EndOfDay   Timing = "end_of_day"
)

// PositionType names a balance category an Account carries.
type PositionType struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// DateType names a date slot an Account instance carries.
type DateType struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// PropertyType describes a configuration-supplied scalar an Account
// carries: a plain decimal/string/boolean, or (if ValueDated) an ordered
// date-indexed history of such values.
type PropertyType struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	DataType   DataType `json:"data_type"`
	Required   bool     `json:"required"`
	ValueDated bool     `json:"value_dated"`
}

// PositionRule is one (operation, position) pair a TransactionType applies
// on posting.
type PositionRule struct {
	Operation        TransactionOperation `json:"operation"`
	PositionTypeName string               `json:"position_type_name"`
}

// TransactionType names a kind of transaction and the position rules it
// applies when posted.
type TransactionType struct {
	Name             string         `json:"name"`
	Label            string         `json:"label"`
	MaximumPrecision bool           `json:"maximum_precision"`
	PositionRules    []PositionRule `json:"position_rules"`
}

// AddPositionRule appends a rule and returns the receiver, so builder
// calls chain: accountType.AddTransactionType(...).AddPositionRule(...).
func (t *TransactionType) AddPositionRule(op TransactionOperation, position *PositionType) *TransactionType {
	t.PositionRules = append(t.PositionRules, PositionRule{Operation: op, PositionTypeName: position.Name})
	return t
}

// ScheduledTransaction fires on every occurrence of its named schedule.
type ScheduledTransaction struct {
	ScheduleName             string `json:"schedule_name"`
	Timing                   Timing `json:"timing"`
	GeneratedTransactionType string `json:"generated_transaction_type"`
	AmountExpression         string `json:"amount_expression"`
}

// TriggeredTransaction fires synchronously whenever a transaction of the
// named trigger type is created.
type TriggeredTransaction struct {
	TriggerTransactionTypeName string `json:"trigger_transaction_type_name"`
	GeneratedTransactionType   string `json:"generated_transaction_type"`
	AmountExpression           string `json:"amount_expression"`
}

// InstalmentType names the single instalment mechanism a product may
// declare: which schedule generates entries, which transaction type posts
// them, which property records the solved amount, and which position/date
// the solver drives to zero.
type InstalmentType struct {
	Name                 string `json:"name"`
	Label                string `json:"label"`
	Timing               Timing `json:"timing"`
	ScheduleName         string `json:"schedule_name"`
	TransactionType      string `json:"transaction_type"`
	PropertyName         string `json:"property_name"`
	SolveForZeroPosition string `json:"solve_for_zero_position"`
	SolveForDate         string `json:"solve_for_date"`
}
