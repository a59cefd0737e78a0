package pool

import (
	"fmt"
	"strconv"
	"strings"
)

// Error is the pool contract error code.
type Error uint32

// Pool contract errors.
const (
	AlreadyInitialized Error = 0
	Uninitialized      Error = 1
	NoPriceFeed        Error = 2
	Paused             Error = 3

	NoReserveExistForAsset      Error = 100
	NoActiveReserve             Error = 101
	ReserveFrozen               Error = 102
	ReservesMaxCapacityExceeded Error = 103
	NoPriceForAsset             Error = 104
	ReserveAlreadyInitialized   Error = 105
	InvalidAssetPrice           Error = 106

	UserConfigInvalidIndex        Error = 200
	NotEnoughAvailableUserBalance Error = 201
	UserConfigNotExists           Error = 202
	MustHaveDebt                  Error = 203
	MustNotHaveDebt               Error = 204

	BorrowingNotEnabled         Error = 300
	CollateralNotCoverNewBorrow Error = 301
	BadPosition                 Error = 302
	GoodPosition                Error = 303
	InvalidAmount               Error = 304
	ValidateBorrowMathError     Error = 305
	CalcAccountDataMathError    Error = 306
	AssetPriceMathError         Error = 307
	NotEnoughCollateral         Error = 308
	LiquidateMathError          Error = 309
	MustNotBeInCollateralAsset  Error = 310
	UtilizationCapExceeded      Error = 311
	LiqCapExceeded              Error = 312

	MathOverflowError         Error = 400
	MustBeLtePercentageFactor Error = 401
	MustBeLtPercentageFactor  Error = 402
	MustBeGtPercentageFactor  Error = 403
	MustBePositive            Error = 404

	AccruedRateMathError     Error = 500
	CollateralCoeffMathError Error = 501
	DebtCoeffMathError       Error = 502
)

var errorNames = map[Error]string{
	AlreadyInitialized:            "AlreadyInitialized",
	Uninitialized:                 "Uninitialized",
	NoPriceFeed:                   "NoPriceFeed",
	Paused:                        "Paused",
	NoReserveExistForAsset:        "NoReserveExistForAsset",
	NoActiveReserve:               "NoActiveReserve",
	ReserveFrozen:                 "ReserveFrozen",
	ReservesMaxCapacityExceeded:   "ReservesMaxCapacityExceeded",
	NoPriceForAsset:               "NoPriceForAsset",
	ReserveAlreadyInitialized:     "ReserveAlreadyInitialized",
	InvalidAssetPrice:             "InvalidAssetPrice",
	UserConfigInvalidIndex:        "UserConfigInvalidIndex",
	NotEnoughAvailableUserBalance: "NotEnoughAvailableUserBalance",
	UserConfigNotExists:           "UserConfigNotExists",
	MustHaveDebt:                  "MustHaveDebt",
	MustNotHaveDebt:               "MustNotHaveDebt",
	BorrowingNotEnabled:           "BorrowingNotEnabled",
	CollateralNotCoverNewBorrow:   "CollateralNotCoverNewBorrow",
	BadPosition:                   "BadPosition",
	GoodPosition:                  "GoodPosition",
	InvalidAmount:                 "InvalidAmount",
	ValidateBorrowMathError:       "ValidateBorrowMathError",
	CalcAccountDataMathError:      "CalcAccountDataMathError",
	AssetPriceMathError:           "AssetPriceMathError",
	NotEnoughCollateral:           "NotEnoughCollateral",
	LiquidateMathError:            "LiquidateMathError",
	MustNotBeInCollateralAsset:    "MustNotBeInCollateralAsset",
	UtilizationCapExceeded:        "UtilizationCapExceeded",
	LiqCapExceeded:                "LiqCapExceeded",
	MathOverflowError:             "MathOverflowError",
	MustBeLtePercentageFactor:     "MustBeLtePercentageFactor",
	MustBeLtPercentageFactor:      "MustBeLtPercentageFactor",
	MustBeGtPercentageFactor:      "MustBeGtPercentageFactor",
	MustBePositive:                "MustBePositive",
	AccruedRateMathError:          "AccruedRateMathError",
	CollateralCoeffMathError:      "CollateralCoeffMathError",
	DebtCoeffMathError:            "DebtCoeffMathError",
}

func (e Error) Error() string {
	if s, ok := errorNames[e]; ok {
		return s
	}
	return fmt.Sprintf("Error(%d)", uint32(e))
}

const contractErrorMarker = "Error(Contract, #"

// ParseError extracts the contract error code from the simulation
// diagnostic (like "HostError: Error(Contract, #302)").
func ParseError(diagnostic string) (Error, bool) {
	i := strings.Index(diagnostic, contractErrorMarker)
	if i < 0 {
		return 0, false
	}
	s := diagnostic[i+len(contractErrorMarker):]
	j := strings.IndexByte(s, ')')
	if j < 0 {
		return 0, false
	}
	code, err := strconv.ParseUint(s[:j], 10, 32)
	if err != nil {
		return 0, false
	}
	return Error(code), true
}
