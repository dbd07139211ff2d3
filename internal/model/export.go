package model

import "time"

// ContractDocument gathers everything the printable contract form needs.
type ContractDocument struct {
	Contract Contract
	Product  Product
	Buyer    User
	Farmer   User
}

type ContractReportRow struct {
	Contract     Contract
	ProductName  string
	Counterparty string
}

type ContractsReport struct {
	Owner       User
	GeneratedAt time.Time
	Rows        []ContractReportRow
}
