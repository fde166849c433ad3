package display

import "ton-sc-viewer/internal/contract"

type ContractView struct {
	Contract	*contract.StorageContractFull	`json:"contract"`
	Storage		StorageView			`json:"storage"`
	Providers	[]ProviderView			`json:"providers"`
}

type StorageView struct {
	BagID		string	`json:"bag_id"`
	GatewayURL	string	`json:"gateway_url"`
	Balance		string	`json:"balance"`
	FileSize	string	`json:"file_size"`
	ChunkSize	string	`json:"chunk_size"`
	Owner		string	`json:"owner"`
	OwnerURL	string	`json:"owner_url"`
	MerkleHash	string	`json:"merkle_hash"`
}

type ProviderView struct {
	CID		string	`json:"cid"`
	CIDShort	string	`json:"cid_short"`
	RatePerMB	int64	`json:"rate_per_mb"`
	MaxSpan		uint64	`json:"max_span"`
	LastProof	string	`json:"last_proof"`
	NextProofByte	string	`json:"next_proof_byte"`
	Nonce		string	`json:"nonce"`
	NonceShort	string	`json:"nonce_short"`
}

func NewContractView(full *contract.StorageContractFull) *ContractView {
	info := full.Info

	v := &ContractView{
		Contract:	full,
		Storage: StorageView{
			BagID:		info.BagID,
			GatewayURL:	GatewayURL(info.BagID),
			Balance:	FormatBalance(full.Providers.Balance),
			FileSize:	PrintSpaceString(info.FileSize),
			ChunkSize:	PrintSpace(info.ChunkSize),
			Owner:		info.Owner,
			OwnerURL:	ExplorerURL(info.Owner),
			MerkleHash:	info.MerkleHash,
		},
		Providers:	make([]ProviderView, 0, len(full.Providers.Providers)),
	}

	for _, p := range full.Providers.Providers {
		v.Providers = append(v.Providers, ProviderView{
			CID:		p.CID,
			CIDShort:	Shorten(p.CID, 15),
			RatePerMB:	p.RatePerMB,
			MaxSpan:	p.MaxSpan,
			LastProof:	FormatProofTime(p.LastProof),
			NextProofByte:	p.NextProofByte,
			Nonce:		p.Nonce,
			NonceShort:	Shorten(p.Nonce, 12),
		})
	}

	return v
}
