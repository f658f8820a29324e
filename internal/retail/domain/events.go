package domain

// LevelUpUpserted is the loyalty-update intent published after a successful
// invoice creation. A separate consumer performs the durable write. LevelUpID
// is omitted for first-time customers so the consumer creates the record
// instead of updating one.
type LevelUpUpserted struct {
	LevelUpID  *int `json:"levelUpId,omitempty"`
	CustomerID int  `json:"customerId"`
	Points     int  `json:"points"`
	MemberDate Date `json:"memberDate"`
}
