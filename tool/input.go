package tool

type (
	// Empty is the input of tools without parameters.
	Empty struct{}

	AccountInput struct {
		AccountID string `json:"accountId" description:"The unique identifier for the account"`
	}

	ProfileInput struct {
		ProfileID string `json:"profileId" description:"The unique identifier for the profile"`
	}

	ProfileAccountInput struct {
		ProfileID string `json:"profileId" description:"The unique identifier for the profile"`
		AccountID string `json:"accountId" description:"The unique identifier for the account"`
	}

	TransactionsInput struct {
		AccountID       string `json:"accountId" description:"The unique identifier for the account"`
		FromDate        string `json:"fromDate,omitempty" description:"Start date in YYYY-MM-DD format" format:"date"`
		ToDate          string `json:"toDate,omitempty" description:"End date in YYYY-MM-DD format" format:"date"`
		TransactionType string `json:"transactionType,omitempty" description:"Filter by transaction type"`
		IncludePending  bool   `json:"includePending,omitempty" description:"Whether to include pending transactions"`
	}

	Transfer struct {
		BeneficiaryAccountID string `json:"beneficiaryAccountId" description:"The account ID of the beneficiary"`
		Amount               string `json:"amount" description:"Amount to transfer in ZAR format (e.g., '100.00')"`
		MyReference          string `json:"myReference" description:"Reference shown on sender's account"`
		TheirReference       string `json:"theirReference" description:"Reference shown on recipient's account"`
	}

	TransferInput struct {
		AccountID    string     `json:"accountId" description:"The account ID to transfer from"`
		TransferList []Transfer `json:"transferList" description:"List of transfers"`
		ProfileID    *string    `json:"profileId,omitempty" description:"Optional profile ID for the transfer. Omit it when not needed; when included it must be null or a valid profile ID"`
	}

	Payment struct {
		BeneficiaryID  string `json:"beneficiaryId" description:"The beneficiary to pay"`
		Amount         string `json:"amount" description:"Amount to pay in ZAR format (e.g., '100.00')"`
		MyReference    string `json:"myReference" description:"Reference shown on payer's account"`
		TheirReference string `json:"theirReference" description:"Reference shown on beneficiary's account"`
	}

	PaymentInput struct {
		AccountID   string    `json:"accountId" description:"The account ID to pay from"`
		PaymentList []Payment `json:"paymentList" description:"List of payments"`
	}

	DocumentsInput struct {
		AccountID string `json:"accountId" description:"The unique identifier for the account"`
		FromDate  string `json:"fromDate" description:"Start date in YYYY-MM-DD format" format:"date"`
		ToDate    string `json:"toDate" description:"End date in YYYY-MM-DD format" format:"date"`
	}

	DocumentInput struct {
		AccountID    string `json:"accountId" description:"The unique identifier for the account"`
		DocumentType string `json:"documentType" description:"The type of document (e.g., 'Statement')"`
		DocumentDate string `json:"documentDate" description:"The date of the document in YYYY-MM-DD format" format:"date"`
	}

	transferRequest struct {
		TransferList []Transfer `json:"transferList"`
		ProfileID    *string    `json:"profileId,omitempty"`
	}

	paymentRequest struct {
		PaymentList []Payment `json:"paymentList"`
	}
)
