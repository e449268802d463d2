package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// Actor roles
	ExecutorRole = "executor"
	GovernorRole = "governor"
	OperatorRole = "operator"

	// Token standards
	ERC721Standard  = "erc721"
	ERC20Standard   = "erc20votes"
	ERC1155Standard = "erc1155"
	ERC5192Standard = "erc5192"
	ERC4671Standard = "erc4671"
	ERC2981Standard = "erc2981"
	ERC4907Standard = "erc4907"
	ERC4626Standard = "erc4626"
	ERC6909Standard = "erc6909"
	ERC3525Standard = "erc3525"
	ERC3643Standard = "erc3643"

	// API key access levels
	AccessLevelRead  = "read"
	AccessLevelWrite = "write"
	AccessLevelAdmin = "admin"

	// Credential trigger policies
	CredentialOnEveryClaim  = "on_every_claim"
	CredentialOnExhaustion  = "on_exhaustion"
	CredentialAfterDeadline = "after_deadline"
)
