package importer

// ValueType is the coercion target of a schema field.
type ValueType string

const (
	TypeDate   ValueType = "date"
	TypeNumber ValueType = "number"
	TypeString ValueType = "string"
)

// Supported ledger types.
const (
	LedgerPayroll   = "payroll"
	LedgerExpenses  = "expenses"
	LedgerTransfers = "transfers"
)

// FieldSpec describes one expected output field of a ledger schema.
// When Position is set it wins over header matching: the three ledger
// spreadsheets follow a fixed column order, which is far more robust than
// matching header spellings.
type FieldSpec struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Headers  []string  `json:"headers"`
	Position *int      `json:"position,omitempty"`
	Required bool      `json:"required"`
	Type     ValueType `json:"type"`
	IsAmount bool      `json:"is_amount"`
}

func col(i int) *int { return &i }

var ledgerSchemas = map[string][]FieldSpec{
	LedgerPayroll: {
		{Name: "fecha", Label: "Fecha", Headers: []string{"fecha", "date", "fecha pago", "payment date"}, Position: col(0), Required: true, Type: TypeDate},
		{Name: "proveedor", Label: "Proveedor", Headers: []string{"proveedor", "supplier", "vendor", "empleado"}, Position: col(1), Required: true, Type: TypeString},
		{Name: "concepto", Label: "Concepto", Headers: []string{"concepto", "concept", "descripcion", "description"}, Position: col(2), Type: TypeString},
		{Name: "nit", Label: "NIT", Headers: []string{"nit", "tax id", "documento"}, Position: col(3), Type: TypeString},
		{Name: "valor_neto", Label: "Valor Neto", Headers: []string{"valor_neto", "valor neto", "neto", "net value"}, Position: col(4), Required: true, Type: TypeNumber, IsAmount: true},
		{Name: "iva", Label: "IVA", Headers: []string{"iva", "vat", "impuesto"}, Position: col(5), Type: TypeNumber, IsAmount: true},
		{Name: "retencion", Label: "Retención", Headers: []string{"retencion", "retención", "withholding"}, Position: col(6), Type: TypeNumber},
	},
	LedgerExpenses: {
		{Name: "numero_facturacion", Label: "Número de Facturación", Headers: []string{"numero_facturacion", "numero factura", "invoice number", "factura"}, Position: col(0), Required: true, Type: TypeString},
		{Name: "fecha", Label: "Fecha", Headers: []string{"fecha", "date", "fecha factura", "invoice date"}, Position: col(1), Required: true, Type: TypeDate},
		{Name: "cliente", Label: "Cliente", Headers: []string{"cliente", "client", "customer"}, Position: col(2), Required: true, Type: TypeString},
		{Name: "servicio", Label: "Servicio", Headers: []string{"servicio", "service", "concepto"}, Position: col(3), Type: TypeString},
		{Name: "nit", Label: "NIT", Headers: []string{"nit", "tax id", "documento"}, Position: col(4), Type: TypeString},
		{Name: "valor", Label: "Valor", Headers: []string{"valor", "value", "amount", "monto"}, Position: col(5), Required: true, Type: TypeNumber, IsAmount: true},
		{Name: "iva", Label: "IVA", Headers: []string{"iva", "vat", "impuesto"}, Position: col(6), Type: TypeNumber, IsAmount: true},
	},
	LedgerTransfers: {
		{Name: "fecha", Label: "Fecha", Headers: []string{"fecha", "date", "fecha traslado", "transfer date"}, Position: col(0), Required: true, Type: TypeDate},
		{Name: "origen", Label: "Origen", Headers: []string{"origen", "origin", "cuenta origen", "source account"}, Position: col(1), Required: true, Type: TypeString},
		{Name: "destino", Label: "Destino", Headers: []string{"destino", "destination", "cuenta destino", "target account"}, Position: col(2), Required: true, Type: TypeString},
		{Name: "valor", Label: "Valor", Headers: []string{"valor", "value", "amount", "monto"}, Position: col(3), Required: true, Type: TypeNumber, IsAmount: true},
		{Name: "saldo", Label: "Saldo", Headers: []string{"saldo", "balance"}, Position: col(4), Type: TypeNumber},
		{Name: "observaciones", Label: "Observaciones", Headers: []string{"observaciones", "observacion", "notes", "remarks"}, Position: col(5), Type: TypeString},
	},
}

// SchemaFor returns the field schema for a ledger type. Unrecognized types get
// an empty schema: nothing resolves and every row passes through unmapped.
func SchemaFor(ledgerType string) []FieldSpec {
	return ledgerSchemas[ledgerType]
}

// LedgerTypes lists the ledger types with a registered schema.
func LedgerTypes() []string {
	return []string{LedgerPayroll, LedgerExpenses, LedgerTransfers}
}

// primaryDateField is the date column used for the batch date range summary.
func primaryDateField(schema []FieldSpec) string {
	for _, field := range schema {
		if field.Type == TypeDate {
			return field.Name
		}
	}
	return ""
}

// distinctDimension is the per-ledger column counted for distinct values in
// the batch summary, alongside the always-counted year and mes.
func distinctDimension(ledgerType string) string {
	switch ledgerType {
	case LedgerPayroll:
		return "proveedor"
	case LedgerExpenses:
		return "cliente"
	case LedgerTransfers:
		return "origen"
	}
	return ""
}
