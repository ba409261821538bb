package tx

// Result is the outcome code of a transaction application. Codes are grouped
// in bands: tes (success), tec (claimed failure against current state),
// tem (malformed, fails static validation), tef (engine failure).
type Result int

const (
	// TesSUCCESS means the transaction applied and all writes committed.
	TesSUCCESS Result = 0
)

// tem codes: the transaction is malformed independent of ledger state.
const (
	TemMALFORMED Result = -200 - iota
	TemINVALID
	TemBAD_PRICE
	TemBAD_QUANTITY
	TemBAD_AMOUNT
	TemBAD_EXPIRATION
	TemBAD_DURATION
	TemBAD_FEE
)

// tec codes: well formed, but the current ledger state rejects it.
const (
	TecNO_ENTRY Result = 100 + iota
	TecNO_PERMISSION
	TecNO_CUSTODY
	TecUNFUNDED
	TecWRONG_QUOTE
	TecWRONG_PRICE
	TecWRONG_RATE
	TecWRONG_DURATION
	TecINSUFFICIENT_QUANTITY
	TecNOT_STARTED
	TecENDED
	TecNOT_ENDED
	TecHAS_RENTER
	TecHAS_BIDDER
	TecNOT_LISTED
	TecBELOW_RESERVE
	TecBELOW_INCREMENT
	TecBAD_FINGERPRINT
	TecDUPLICATE
)

// tef codes: the engine could not process the transaction at all.
const (
	TefINTERNAL Result = -100
)

// Class buckets results for callers that care about the failure family
// rather than the exact code.
type Class int

const (
	ClassSuccess Class = iota
	ClassValidation
	ClassAuthorization
	ClassNotFound
	ClassStateConflict
	ClassPayment
	ClassCustody
	ClassFingerprint
	ClassInternal
)

var resultNames = map[Result]string{
	TesSUCCESS: "tesSUCCESS",

	TemMALFORMED:      "temMALFORMED",
	TemINVALID:        "temINVALID",
	TemBAD_PRICE:      "temBAD_PRICE",
	TemBAD_QUANTITY:   "temBAD_QUANTITY",
	TemBAD_AMOUNT:     "temBAD_AMOUNT",
	TemBAD_EXPIRATION: "temBAD_EXPIRATION",
	TemBAD_DURATION:   "temBAD_DURATION",
	TemBAD_FEE:        "temBAD_FEE",

	TecNO_ENTRY:              "tecNO_ENTRY",
	TecNO_PERMISSION:         "tecNO_PERMISSION",
	TecNO_CUSTODY:            "tecNO_CUSTODY",
	TecUNFUNDED:              "tecUNFUNDED",
	TecWRONG_QUOTE:           "tecWRONG_QUOTE",
	TecWRONG_PRICE:           "tecWRONG_PRICE",
	TecWRONG_RATE:            "tecWRONG_RATE",
	TecWRONG_DURATION:        "tecWRONG_DURATION",
	TecINSUFFICIENT_QUANTITY: "tecINSUFFICIENT_QUANTITY",
	TecNOT_STARTED:           "tecNOT_STARTED",
	TecENDED:                 "tecENDED",
	TecNOT_ENDED:             "tecNOT_ENDED",
	TecHAS_RENTER:            "tecHAS_RENTER",
	TecHAS_BIDDER:            "tecHAS_BIDDER",
	TecNOT_LISTED:            "tecNOT_LISTED",
	TecBELOW_RESERVE:         "tecBELOW_RESERVE",
	TecBELOW_INCREMENT:       "tecBELOW_INCREMENT",
	TecBAD_FINGERPRINT:       "tecBAD_FINGERPRINT",
	TecDUPLICATE:             "tecDUPLICATE",

	TefINTERNAL: "tefINTERNAL",
}

var resultMessages = map[Result]string{
	TesSUCCESS: "The transaction was applied.",

	TemMALFORMED:      "Malformed transaction.",
	TemINVALID:        "The transaction is ill-formed.",
	TemBAD_PRICE:      "Price must be greater than zero.",
	TemBAD_QUANTITY:   "Quantity must be greater than zero.",
	TemBAD_AMOUNT:     "Amount must be greater than zero.",
	TemBAD_EXPIRATION: "Expiration or time bound is invalid.",
	TemBAD_DURATION:   "Duration is below the minimum rental period.",
	TemBAD_FEE:        "Fee or royalty rate exceeds its cap.",

	TecNO_ENTRY:              "The referenced entry does not exist.",
	TecNO_PERMISSION:         "The account is not allowed to perform this operation.",
	TecNO_CUSTODY:            "The account does not own or control the asset.",
	TecUNFUNDED:              "Insufficient balance to fund the operation.",
	TecWRONG_QUOTE:           "The quote asset does not match the listing.",
	TecWRONG_PRICE:           "The price does not match the listing.",
	TecWRONG_RATE:            "The rate does not match the offer.",
	TecWRONG_DURATION:        "The duration does not match the offer.",
	TecINSUFFICIENT_QUANTITY: "The listing has fewer units than requested.",
	TecNOT_STARTED:           "The auction has not started yet.",
	TecENDED:                 "The auction has already ended.",
	TecNOT_ENDED:             "The auction has not ended yet.",
	TecHAS_RENTER:            "The asset is currently rented out.",
	TecHAS_BIDDER:            "The auction already has a bid.",
	TecNOT_LISTED:            "The asset is not listed.",
	TecBELOW_RESERVE:         "The bid is below the reserve price.",
	TecBELOW_INCREMENT:       "The bid does not exceed the current bid by the minimum increment.",
	TecBAD_FINGERPRINT:       "The supplied fingerprint does not match the asset.",
	TecDUPLICATE:             "An identical entry already exists.",

	TefINTERNAL: "Internal engine error.",
}

// String returns the canonical code name, e.g. "tecUNFUNDED".
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return "unknown"
}

// Message returns a human readable description of the result.
func (r Result) Message() string {
	if msg, ok := resultMessages[r]; ok {
		return msg
	}
	return "Unknown result code."
}

// Success reports whether the transaction applied.
func (r Result) Success() bool { return r == TesSUCCESS }

// IsTem reports whether the code is in the malformed band.
func (r Result) IsTem() bool { return r <= -200 && r > -300 }

// IsTec reports whether the code is in the claimed-failure band.
func (r Result) IsTec() bool { return r >= 100 && r < 200 }

// IsTef reports whether the code is in the engine-failure band.
func (r Result) IsTef() bool { return r <= -100 && r > -200 }

// Class maps the result onto its failure family.
func (r Result) Class() Class {
	switch {
	case r == TesSUCCESS:
		return ClassSuccess
	case r.IsTem():
		return ClassValidation
	case r.IsTef():
		return ClassInternal
	}
	switch r {
	case TecNO_PERMISSION:
		return ClassAuthorization
	case TecNO_ENTRY, TecNOT_LISTED:
		return ClassNotFound
	case TecUNFUNDED, TecWRONG_QUOTE, TecWRONG_PRICE, TecWRONG_RATE, TecWRONG_DURATION:
		return ClassPayment
	case TecNO_CUSTODY:
		return ClassCustody
	case TecBAD_FINGERPRINT:
		return ClassFingerprint
	default:
		return ClassStateConflict
	}
}

// ResultFromName resolves a canonical code name back to its Result. The
// second return is false for unknown names.
func ResultFromName(name string) (Result, bool) {
	for r, n := range resultNames {
		if n == name {
			return r, true
		}
	}
	return TefINTERNAL, false
}
