package constants

// Constants that are the same for all chain configurations

const (
	// Maximum total encoded size of the extrinsics applied in one block.
	MaxTransactionsSize = 4 * 1024 * 1024

	// Default number of workers validating a batch of transactions.
	DefaultValidateWorkers = 4

	// Entries kept in the block number to hash cache.
	DefaultHashCacheSize = 1 << 14
)
