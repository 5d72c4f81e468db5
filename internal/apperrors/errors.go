package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTickerNotFound indicates that no trades exist for the given ticker.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrPriceNotFound indicates no price record for a specific ticker and date combination.
	ErrPriceNotFound = errors.New("price not found")

	// ErrFXRateNotFound indicates no exchange rate record at or before the requested date.
	ErrFXRateNotFound = errors.New("exchange rate for currency pair/date not found")

	// ErrSettingNotFound indicates that a configuration key has no stored value.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrBatchNotFound indicates that an import batch with the given ID does not exist.
	ErrBatchNotFound = errors.New("import batch not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidInterval indicates an unrecognized series bucketing interval.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidCurrency indicates that a required currency parameter is missing or malformed.
	ErrInvalidCurrency = errors.New("currency parameter is required")

	// ErrInvalidTicker indicates that a required ticker parameter is empty.
	ErrInvalidTicker = errors.New("ticker parameter is required")

	// ErrEmptyImport indicates that an import payload contained no rows.
	ErrEmptyImport = errors.New("import payload contains no rows")

	// ErrUnknownCommissionPolicy indicates an unrecognized option commission policy value.
	ErrUnknownCommissionPolicy = errors.New("unknown option commission policy")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToRetrievePositions = errors.New("failed to retrieve positions")
	ErrFailedToRetrieveTransfers = errors.New("failed to retrieve transfers")
	ErrFailedToRetrieveDividends = errors.New("failed to retrieve dividends")
	ErrFailedToRetrieveOptions   = errors.New("failed to retrieve options")
	ErrFailedToRetrievePrices    = errors.New("failed to retrieve prices")
	ErrFailedToRetrieveSettings  = errors.New("failed to retrieve settings")
	ErrFailedToBuildSeries       = errors.New("failed to build series")
	ErrFailedToImportRecords     = errors.New("failed to import records")
	ErrFailedToSyncPrices        = errors.New("failed to sync prices")
	ErrFailedToResetData         = errors.New("failed to reset data")
)
