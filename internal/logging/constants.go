package logging

// Standardized field names for structured logging.
const (
	FieldFile          = "file_path"
	FieldRow           = "row"
	FieldArticle       = "article_number"
	FieldManufacturer  = "manufacturer"
	FieldProduct       = "product"
	FieldCategory      = "category"
	FieldSaleType      = "sale_type"
	FieldPercentage    = "pct_of_old_price"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldDuration      = "duration_ms"
	FieldCount         = "count"
	FieldEffectiveDate = "effective_date"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
	FieldRunID         = "run_id"
)
