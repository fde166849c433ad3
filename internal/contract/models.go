package contract

// StorageContractFull is the decoded state of one storage contract.
type StorageContractFull struct {
	Info		ContractInfo		`json:"info"`
	Providers	ContractProviders	`json:"providers"`
}

type ContractInfo struct {
	BagID		string	`json:"bagID"`		// 64 uppercase hex chars
	FileSize	string	`json:"fileSize"`	// decimal, may exceed 2^53
	ChunkSize	uint64	`json:"chunkSize"`
	Owner		string	`json:"owner"`
	MerkleHash	string	`json:"merkleHash"`	// 64 lowercase hex chars
}

type ContractProviders struct {
	Providers	[]ProviderInfo	`json:"providers"`
	Balance		string		`json:"balance"`	// nanotons, decimal
}

type ProviderInfo struct {
	CID		string	`json:"cid"`
	RatePerMB	int64	`json:"ratePerMB"`
	MaxSpan		uint64	`json:"maxSpan"`
	LastProof	uint64	`json:"lastProof"`	// unix seconds, 0 if never proven
	NextProofByte	string	`json:"nextProofByte"`
	Nonce		string	`json:"nonce"`
}
