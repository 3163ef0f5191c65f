package crypto

// Keyring provides secure token storage abstraction
type Keyring interface {
	GetToken() (string, error)
	SetToken(token string) error
	DeleteToken() error
	IsAvailable() bool
}

const (
	ServiceName = "billdesk"
	TokenName   = "remote-api-token"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
