package deriv

// APIError is the venue's error envelope. Any response may carry one in
// place of its payload; it is surfaced as the Call error so callers can
// tell a venue rejection from a transport failure with errors.As.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// envelope is embedded by every response type so Call can lift the error
// object uniformly.
type envelope struct {
	Error   *APIError `json:"error,omitempty"`
	MsgType string    `json:"msg_type,omitempty"`
}

func (e envelope) apiErr() *APIError { return e.Error }

// Response is implemented by every reply envelope understood by Call.
type Response interface {
	apiErr() *APIError
}

type authorizeRequest struct {
	Authorize string `json:"authorize"`
}

type authorizeResult struct {
	LoginID  string  `json:"loginid"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

type authorizeResponse struct {
	envelope
	Authorize *authorizeResult `json:"authorize"`
}

// BuyRequest purchases one contract at the given price.
type BuyRequest struct {
	Buy         int            `json:"buy"`
	Price       float64        `json:"price"`
	Parameters  BuyParameters  `json:"parameters"`
	Passthrough map[string]any `json:"passthrough,omitempty"`
}

// BuyParameters describe the contract being bought. DurationUnit "t"
// means ticks; Barrier carries the predicted digit for digit contracts.
type BuyParameters struct {
	Amount       float64 `json:"amount"`
	Basis        string  `json:"basis"`
	ContractType string  `json:"contract_type"`
	Currency     string  `json:"currency"`
	Duration     int     `json:"duration"`
	DurationUnit string  `json:"duration_unit"`
	Symbol       string  `json:"symbol"`
	Barrier      string  `json:"barrier"`
}

// BuyResult is the accepted-purchase payload.
type BuyResult struct {
	ContractID int64   `json:"contract_id"`
	BuyPrice   float64 `json:"buy_price"`
	Payout     float64 `json:"payout"`
	LongCode   string  `json:"longcode"`
}

// BuyResponse wraps a buy reply; Buy is nil when the venue rejected the
// purchase (the rejection itself arrives as the Call error).
type BuyResponse struct {
	envelope
	Buy *BuyResult `json:"buy"`
}

// OpenContractRequest queries the live status of one contract.
type OpenContractRequest struct {
	ProposalOpenContract int   `json:"proposal_open_contract"`
	ContractID           int64 `json:"contract_id"`
}

// OpenContract is the status snapshot of a contract. The venue encodes
// booleans as 0/1.
type OpenContract struct {
	ContractID int64   `json:"contract_id"`
	IsSold     int     `json:"is_sold"`
	Profit     float64 `json:"profit"`
	Status     string  `json:"status"`
}

// Sold reports whether the contract has settled.
func (c *OpenContract) Sold() bool { return c != nil && c.IsSold != 0 }

// OpenContractResponse wraps a proposal_open_contract reply.
type OpenContractResponse struct {
	envelope
	ProposalOpenContract *OpenContract `json:"proposal_open_contract"`
}
