package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teemow/gdocs/internal/documents"
	"github.com/teemow/gdocs/internal/server"
)

// CredentialsArg is the optional tool argument naming a service-account
// key file to use instead of the server's configured one.
const CredentialsArg = "credentials"

// resourceIDArgs are the arguments identifying the item a tool acts on,
// in lookup order.
var resourceIDArgs = []string{"fileId", "documentId", "spreadsheetId", "folderId"}

// GetStringArg returns args[key] when it is a string, else "".
func GetStringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// RequireStringArg returns args[key] or an error when it is missing or empty.
func RequireStringArg(args map[string]interface{}, key string) (string, error) {
	v := GetStringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// GetBoolArg returns args[key] and whether it was set to a bool.
func GetBoolArg(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

// ParseCommaList splits a comma-separated list, dropping empty entries.
func ParseCommaList(s string) []string {
	result := []string{}
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetResourceIDFromArgs returns the id of the item a tool call targets, or
// "" when the call names none.
func GetResourceIDFromArgs(args map[string]interface{}) string {
	for _, key := range resourceIDArgs {
		if id := GetStringArg(args, key); id != "" {
			return id
		}
	}
	return ""
}

// ParseValuesArg decodes a JSON array of rows, e.g. [["a", 1], ["b", 2]].
func ParseValuesArg(args map[string]interface{}, key string) ([][]any, error) {
	raw, err := RequireStringArg(args, key)
	if err != nil {
		return nil, err
	}

	var values [][]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("%s must be a JSON array of rows: %w", key, err)
	}
	return values, nil
}

// credentialsFromArgs returns the key file named by the credentials
// argument as the server resolves it, or "" when the argument is absent.
func credentialsFromArgs(sc *server.ServerContext, args map[string]interface{}) (string, error) {
	arg := GetStringArg(args, CredentialsArg)
	if arg == "" {
		return "", nil
	}
	return sc.ResolveCredentials(arg)
}

// ManagerForArgs returns the server's manager for kind, or a copy using
// the key file named by the credentials argument.
func ManagerForArgs(sc *server.ServerContext, kind documents.Kind, args map[string]interface{}) (*documents.Manager, error) {
	path, err := credentialsFromArgs(sc, args)
	if err != nil {
		return nil, err
	}
	m := sc.Manager(kind)
	if path != "" {
		return m.Using(path)
	}
	return m, nil
}

// SpreadsheetsForArgs is ManagerForArgs for the spreadsheet manager.
func SpreadsheetsForArgs(sc *server.ServerContext, args map[string]interface{}) (*documents.SpreadsheetManager, error) {
	path, err := credentialsFromArgs(sc, args)
	if err != nil {
		return nil, err
	}
	m := sc.Spreadsheets()
	if path != "" {
		return m.Using(path)
	}
	return m, nil
}
