package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcp-protocol/schema"
)

func TestRegister_InputSchema(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, Register(registry, "get_account_transactions", "transactions", func(ctx context.Context, input *TransactionsInput) (string, error) {
		return "", nil
	}))
	require.NoError(t, Register(registry, "transfer_multiple", "transfer", func(ctx context.Context, input *TransferInput) (string, error) {
		return "", nil
	}))

	transactions, ok := registry.Lookup("get_account_transactions")
	require.True(t, ok)
	assert.Equal(t, "object", transactions.InputSchema().Type)
	assert.Equal(t, []string{"accountId"}, transactions.InputSchema().Required)
	assert.Equal(t, "boolean", transactions.InputSchema().Properties["includePending"]["type"])
	assert.Equal(t, "date", transactions.InputSchema().Properties["fromDate"]["format"])
	assert.Equal(t, "The unique identifier for the account", transactions.InputSchema().Properties["accountId"]["description"])

	transfer, ok := registry.Lookup("transfer_multiple")
	require.True(t, ok)
	assert.Equal(t, []string{"accountId", "transferList"}, transfer.InputSchema().Required)
	assert.Equal(t, true, transfer.InputSchema().Properties["profileId"]["nullable"])
	list := transfer.InputSchema().Properties["transferList"]
	assert.Equal(t, "array", list["type"])
	items, ok := list["items"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"beneficiaryAccountId", "amount", "myReference", "theirReference"}, items["required"])
}

func TestRegister_EmptyInput(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, Register(registry, "get_accounts", "accounts", func(ctx context.Context, input *Empty) (string, error) {
		return "ok", nil
	}))
	tool, _ := registry.Lookup("get_accounts")
	assert.Empty(t, tool.InputSchema().Required)
	assert.Empty(t, tool.InputSchema().Properties)

	result, err := tool.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := NewRegistry()
	fn := func(ctx context.Context, input *Empty) (string, error) { return "", nil }
	require.NoError(t, Register(registry, "get_profiles", "profiles", fn))
	assert.Error(t, Register(registry, "get_profiles", "profiles", fn))
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_Definitions(t *testing.T) {
	registry := NewRegistry()
	fn := func(ctx context.Context, input *Empty) (string, error) { return "", nil }
	for _, name := range []string{"b", "a", "c"} {
		require.NoError(t, Register(registry, name, name+" tool", fn))
	}
	definitions := registry.Definitions()
	require.Len(t, definitions, 3)
	assert.Equal(t, "b", definitions[0].Name)
	assert.Equal(t, "a", definitions[1].Name)
	require.NotNil(t, definitions[2].Description)
	assert.Equal(t, "c tool", *definitions[2].Description)
}

func TestTool_Call_DecodesArguments(t *testing.T) {
	registry := NewRegistry()
	var captured *TransferInput
	require.NoError(t, Register(registry, "transfer_multiple", "transfer", func(ctx context.Context, input *TransferInput) (string, error) {
		captured = input
		return "done", nil
	}))
	tool, _ := registry.Lookup("transfer_multiple")

	result, err := tool.Call(context.Background(), map[string]interface{}{
		"accountId": "acc1",
		"transferList": []interface{}{
			map[string]interface{}{"beneficiaryAccountId": "b1", "amount": "100.00", "myReference": "r1", "theirReference": "r2"},
		},
		"profileId": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	require.NotNil(t, captured)
	assert.Equal(t, "acc1", captured.AccountID)
	assert.Nil(t, captured.ProfileID)
	assert.Equal(t, []Transfer{{BeneficiaryAccountID: "b1", Amount: "100.00", MyReference: "r1", TheirReference: "r2"}}, captured.TransferList)

	_, err = tool.Call(context.Background(), map[string]interface{}{"accountId": 12})
	var argErr *ArgumentError
	assert.True(t, errors.As(err, &argErr))
}

func TestRegister_RejectsNonStruct(t *testing.T) {
	registry := NewRegistry()
	err := Register(registry, "text", "text", func(ctx context.Context, input *string) (string, error) {
		return "", nil
	})
	assert.Error(t, err)
	assert.Equal(t, 0, registry.Len())
}

func TestTool_Handler(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, Register(registry, "get_account_balance", "balance", func(ctx context.Context, input *AccountInput) (string, error) {
		if input.AccountID == "missing" {
			return "", errors.New("request GET /accounts/missing/balance failed with status 404: not found")
		}
		return `{"data":{}}`, nil
	}))
	tool, ok := registry.Lookup("get_account_balance")
	require.True(t, ok)

	var testCases = []struct {
		description string
		accountID   string
		expectText  string
		expectError bool
	}{
		{description: "text result", accountID: "acc1", expectText: `{"data":{}}`},
		{description: "error result", accountID: "missing", expectText: "request GET /accounts/missing/balance failed with status 404: not found", expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			request := &schema.CallToolRequest{Method: schema.MethodToolsCall}
			request.Params.Name = "get_account_balance"
			request.Params.Arguments = map[string]interface{}{"accountId": testCase.accountID}
			result, rpcErr := tool.Handler(context.Background(), request)
			require.Nil(t, rpcErr)
			require.Len(t, result.Content, 1)
			content, ok := result.Content[0].(schema.TextContent)
			require.True(t, ok)
			assert.Equal(t, "text", content.Type)
			assert.Equal(t, testCase.expectText, content.Text)
			assert.Equal(t, testCase.expectError, result.IsError != nil && *result.IsError)
		})
	}
}
