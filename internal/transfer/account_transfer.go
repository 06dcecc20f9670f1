package transfer

// ConnectAccount is the request body for connecting a destination account
// with provider credentials.
type ConnectAccount struct {
	Provider           string            `json:"provider"`
	DisplayName        string            `json:"display_name"`
	ExternalIdentifier string            `json:"external_identifier"`
	Credentials        map[string]string `json:"credentials"`
}
