package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/openbank-tools/investec-mcp/api"
)

// PrivateBankingPath prefixes every private banking endpoint.
const PrivateBankingPath = "/za/pb/v1"

// Requester issues API calls; *api.Client implements it.
type Requester interface {
	Get(ctx context.Context, path string, query api.Query) (json.RawMessage, error)
	Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error)
}

// Banking exposes the Investec private banking endpoints as tools.
type Banking struct {
	api Requester
}

func (b *Banking) GetAccounts(ctx context.Context, _ *Empty) (string, error) {
	return b.get(ctx, "/accounts", nil)
}

func (b *Banking) GetAccountBalance(ctx context.Context, input *AccountInput) (string, error) {
	if err := required("get_account_balance", "accountId", input.AccountID); err != nil {
		return "", err
	}
	return b.get(ctx, "/accounts/"+url.PathEscape(input.AccountID)+"/balance", nil)
}

func (b *Banking) GetAccountTransactions(ctx context.Context, input *TransactionsInput) (string, error) {
	if err := required("get_account_transactions", "accountId", input.AccountID); err != nil {
		return "", err
	}
	query := api.Query{}
	if input.FromDate != "" {
		query["fromDate"] = input.FromDate
	}
	if input.ToDate != "" {
		query["toDate"] = input.ToDate
	}
	if input.TransactionType != "" {
		query["transactionType"] = input.TransactionType
	}
	if input.IncludePending {
		query["includePending"] = true
	}
	return b.get(ctx, "/accounts/"+url.PathEscape(input.AccountID)+"/transactions", query)
}

func (b *Banking) GetPendingTransactions(ctx context.Context, input *AccountInput) (string, error) {
	if err := required("get_pending_transactions", "accountId", input.AccountID); err != nil {
		return "", err
	}
	return b.get(ctx, "/accounts/"+url.PathEscape(input.AccountID)+"/pending-transactions", nil)
}

func (b *Banking) GetProfiles(ctx context.Context, _ *Empty) (string, error) {
	return b.get(ctx, "/profiles", nil)
}

func (b *Banking) GetProfileAccounts(ctx context.Context, input *ProfileInput) (string, error) {
	if err := required("get_profile_accounts", "profileId", input.ProfileID); err != nil {
		return "", err
	}
	return b.get(ctx, "/profiles/"+url.PathEscape(input.ProfileID)+"/accounts", nil)
}

func (b *Banking) GetBeneficiaries(ctx context.Context, _ *Empty) (string, error) {
	return b.get(ctx, "/accounts/beneficiaries", nil)
}

func (b *Banking) GetBeneficiaryCategories(ctx context.Context, _ *Empty) (string, error) {
	return b.get(ctx, "/accounts/beneficiarycategories", nil)
}

func (b *Banking) GetProfileBeneficiaries(ctx context.Context, input *ProfileAccountInput) (string, error) {
	path, err := profileAccountPath("get_profile_beneficiaries", input)
	if err != nil {
		return "", err
	}
	return b.get(ctx, path+"/beneficiaries", nil)
}

func (b *Banking) GetAuthorisationSetupDetails(ctx context.Context, input *ProfileAccountInput) (string, error) {
	path, err := profileAccountPath("get_authorisation_setup_details", input)
	if err != nil {
		return "", err
	}
	return b.get(ctx, path+"/authorisationsetupdetails", nil)
}

func (b *Banking) TransferMultiple(ctx context.Context, input *TransferInput) (string, error) {
	if err := required("transfer_multiple", "accountId", input.AccountID); err != nil {
		return "", err
	}
	if len(input.TransferList) == 0 {
		return "", &ArgumentError{Tool: "transfer_multiple", Err: errors.New("transferList is required")}
	}
	body := &transferRequest{TransferList: input.TransferList, ProfileID: input.ProfileID}
	return b.post(ctx, "/accounts/"+url.PathEscape(input.AccountID)+"/transfermultiple", body)
}

func (b *Banking) PayMultiple(ctx context.Context, input *PaymentInput) (string, error) {
	if err := required("pay_multiple", "accountId", input.AccountID); err != nil {
		return "", err
	}
	if len(input.PaymentList) == 0 {
		return "", &ArgumentError{Tool: "pay_multiple", Err: errors.New("paymentList is required")}
	}
	body := &paymentRequest{PaymentList: input.PaymentList}
	return b.post(ctx, "/accounts/"+url.PathEscape(input.AccountID)+"/paymultiple", body)
}

func (b *Banking) GetDocuments(ctx context.Context, input *DocumentsInput) (string, error) {
	for _, param := range [][2]string{{"accountId", input.AccountID}, {"fromDate", input.FromDate}, {"toDate", input.ToDate}} {
		if err := required("get_documents", param[0], param[1]); err != nil {
			return "", err
		}
	}
	query := api.Query{"fromDate": input.FromDate, "toDate": input.ToDate}
	return b.get(ctx, "/accounts/"+url.PathEscape(input.AccountID)+"/documents", query)
}

func (b *Banking) GetDocument(ctx context.Context, input *DocumentInput) (string, error) {
	for _, param := range [][2]string{{"accountId", input.AccountID}, {"documentType", input.DocumentType}, {"documentDate", input.DocumentDate}} {
		if err := required("get_document", param[0], param[1]); err != nil {
			return "", err
		}
	}
	path := "/accounts/" + url.PathEscape(input.AccountID) + "/document/" + url.PathEscape(input.DocumentType) + "/" + url.PathEscape(input.DocumentDate)
	return b.get(ctx, path, nil)
}

// Register adds all banking tools to registry
func (b *Banking) Register(registry *Registry) error {
	return errors.Join(
		Register(registry, "get_accounts", "Get a list of accounts with metadata.", b.GetAccounts),
		Register(registry, "get_account_balance", "Get the balance of a specific account.", b.GetAccountBalance),
		Register(registry, "get_account_transactions", "Get transactions for a specific account, optionally filtered by date range, transaction type and pending state.", b.GetAccountTransactions),
		Register(registry, "get_pending_transactions", "Get pending transactions for a specific account.", b.GetPendingTransactions),
		Register(registry, "get_profiles", "Get a list of profiles.", b.GetProfiles),
		Register(registry, "get_profile_accounts", "Get accounts for a specific profile.", b.GetProfileAccounts),
		Register(registry, "get_beneficiaries", "Get a list of beneficiaries.", b.GetBeneficiaries),
		Register(registry, "get_beneficiary_categories", "Get a list of beneficiary categories.", b.GetBeneficiaryCategories),
		Register(registry, "get_profile_beneficiaries", "Get beneficiaries for a specific profile and account.", b.GetProfileBeneficiaries),
		Register(registry, "get_authorisation_setup_details", "Get authorisation setup details for a specific profile and account.", b.GetAuthorisationSetupDetails),
		Register(registry, "transfer_multiple", "Transfer funds to one or multiple accounts. Each transfer needs beneficiaryAccountId, amount, myReference and theirReference. Returns the JSON API response.", b.TransferMultiple),
		Register(registry, "pay_multiple", "Pay funds to one or multiple beneficiaries. Each payment needs beneficiaryId, amount, myReference and theirReference.", b.PayMultiple),
		Register(registry, "get_documents", "Get a list of documents for a specific account.", b.GetDocuments),
		Register(registry, "get_document", "Get a specific document.", b.GetDocument),
	)
}

func (b *Banking) get(ctx context.Context, path string, query api.Query) (string, error) {
	result, err := b.api.Get(ctx, PrivateBankingPath+path, query)
	if err != nil {
		return "", err
	}
	return indent(result)
}

func (b *Banking) post(ctx context.Context, path string, body interface{}) (string, error) {
	result, err := b.api.Post(ctx, PrivateBankingPath+path, body)
	if err != nil {
		return "", err
	}
	return indent(result)
}

func profileAccountPath(toolName string, input *ProfileAccountInput) (string, error) {
	if err := required(toolName, "profileId", input.ProfileID); err != nil {
		return "", err
	}
	if err := required(toolName, "accountId", input.AccountID); err != nil {
		return "", err
	}
	return "/profiles/" + url.PathEscape(input.ProfileID) + "/accounts/" + url.PathEscape(input.AccountID), nil
}

func required(toolName, param, value string) error {
	if value == "" {
		return &ArgumentError{Tool: toolName, Err: fmt.Errorf("%v is required", param)}
	}
	return nil
}

func indent(data json.RawMessage) (string, error) {
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, data, "", "  "); err != nil {
		return "", fmt.Errorf("failed to format response: %w", err)
	}
	return buf.String(), nil
}

// NewBanking creates banking tools backed by requester
func NewBanking(requester Requester) *Banking {
	return &Banking{api: requester}
}
