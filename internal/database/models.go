package database

import "time"

type Lookup struct {
	ID		int64		`json:"id"`
	Address		string		`json:"address"`
	BagID		string		`json:"bag_id"`
	Providers	int		`json:"providers"`
	Balance		string		`json:"balance"`
	Status		string		`json:"status"`	// "ok" or an error kind
	ErrorMsg	string		`json:"error_msg,omitempty"`
	CreatedAt	time.Time	`json:"created_at"`
}
